package handler

import (
	"chai-adda-pos/internal/middleware"
	"chai-adda-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service service.AuthService
	log     *zap.Logger
}

func NewAuthHandler(s service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

// Setup creates a new store with its three role PINs.
// POST /api/v1/auth/setup
func (h *AuthHandler) Setup(c *fiber.Ctx) error {
	var req service.SetupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	store, err := h.service.SetupStore(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	h.log.Info("store created", zap.String("store_id", store.ID.String()), zap.String("store_code", store.StoreCode))
	return c.Status(201).JSON(fiber.Map{
		"message":   "Store created",
		"storeCode": store.StoreCode,
	})
}

// Login exchanges a store code and PIN for a session token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.service.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// ResetPin replaces the cashier or kitchen PIN of the caller's store.
// POST /api/v1/auth/reset-pin (OWNER)
func (h *AuthHandler) ResetPin(c *fiber.Ctx) error {
	var req service.ResetPinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.ResetPin(c.UserContext(), middleware.StoreID(c), &req); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "PIN updated"})
}
