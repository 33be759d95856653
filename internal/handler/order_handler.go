package handler

import (
	"chai-adda-pos/internal/middleware"
	"chai-adda-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
	log     *zap.Logger
}

func NewOrderHandler(s service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, log: log}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.StoreID(c), &req, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(order)
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.CancelOrder(c.UserContext(), middleware.StoreID(c), id, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(c.UserContext(), middleware.StoreID(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	from, to, err := optionalWindow(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	orders, err := h.service.ListOrders(c.UserContext(), middleware.StoreID(c), from, to)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(orders)
}
