package handler

import (
	"chai-adda-pos/internal/middleware"
	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	service service.LedgerService
	log     *zap.Logger
}

func NewLedgerHandler(s service.LedgerService, log *zap.Logger) *LedgerHandler {
	return &LedgerHandler{service: s, log: log}
}

func (h *LedgerHandler) GetAccounts(c *fiber.Ctx) error {
	accounts, err := h.service.ListAccounts(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(accounts)
}

func (h *LedgerHandler) CreateAccount(c *fiber.Ctx) error {
	var req service.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	account, err := h.service.CreateAccount(c.UserContext(), middleware.StoreID(c), &req, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(account)
}

func (h *LedgerHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entry, err := h.service.RecordTransaction(c.UserContext(), middleware.StoreID(c), &req, actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": entry})
}

func (h *LedgerHandler) GetTransactions(c *fiber.Ctx) error {
	from, to, err := optionalWindow(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	filter := repository.TransactionFilter{From: from, To: to}
	if v := c.Query("type"); v != "" {
		txType := model.TransactionType(v)
		filter.Type = &txType
	}

	transactions, err := h.service.ListTransactions(c.UserContext(), middleware.StoreID(c), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(transactions)
}
