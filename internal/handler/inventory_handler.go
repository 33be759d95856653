package handler

import (
	"chai-adda-pos/internal/middleware"
	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	service service.InventoryService
	log     *zap.Logger
}

func NewInventoryHandler(s service.InventoryService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{service: s, log: log}
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(c.UserContext(), middleware.StoreID(c), &req, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), middleware.StoreID(c), productID, &req, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) GetRawMaterials(c *fiber.Ctx) error {
	materials, err := h.service.ListRawMaterials(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(materials)
}

func (h *InventoryHandler) CreateRawMaterial(c *fiber.Ctx) error {
	var req service.RawMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	material, err := h.service.CreateRawMaterial(c.UserContext(), middleware.StoreID(c), &req, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(material)
}

// UpdateRawMaterialStatus serves both PATCH /raw-material/:id/status and the
// older PUT /raw-material/:id.
func (h *InventoryHandler) UpdateRawMaterialStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid raw material ID"})
	}

	var body struct {
		Status model.StockStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	material, err := h.service.UpdateRawMaterialStatus(c.UserContext(), middleware.StoreID(c), id, body.Status, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(material)
}

func (h *InventoryHandler) UpdateRawMaterial(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid raw material ID"})
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	material, err := h.service.RenameRawMaterial(c.UserContext(), middleware.StoreID(c), id, body.Name, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(material)
}

func (h *InventoryHandler) DeleteRawMaterial(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid raw material ID"})
	}

	if err := h.service.DeleteRawMaterial(c.UserContext(), middleware.StoreID(c), id, actor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Raw material deleted"})
}
