package handler

import (
	"chai-adda-pos/internal/middleware"
	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/ws"
	"chai-adda-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Orders    *OrderHandler
	Ledger    *LedgerHandler
	Reports   *ReportHandler
	Hub       *ws.Hub
	Tokens    *jwt.Manager
}

func RegisterRoutes(app *fiber.App, h Handlers) {
	owner := middleware.RequireRole(model.RoleOwner)
	till := middleware.RequireRole(model.RoleOwner, model.RoleCashier)
	kitchen := middleware.RequireRole(model.RoleOwner, model.RoleKitchen)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Health Check ok!")
	})

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/setup", h.Auth.Setup)
	auth.Post("/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(h.Tokens))

	protected.Post("/auth/reset-pin", owner, h.Auth.ResetPin)

	protected.Get("/reports/revenue", owner, h.Reports.GetRevenueReport)
	protected.Get("/reports/orders", owner, h.Reports.GetOrderReport)
	protected.Get("/reports/stock", h.Reports.GetStockReport)

	protected.Get("/products", h.Inventory.GetProducts)
	protected.Post("/products", owner, h.Inventory.CreateProduct)
	protected.Put("/products/:id", owner, h.Inventory.UpdateProduct)

	protected.Post("/raw-material", kitchen, h.Inventory.CreateRawMaterial)
	protected.Get("/raw-material", h.Inventory.GetRawMaterials)
	protected.Patch("/raw-material/:id/status", kitchen, h.Inventory.UpdateRawMaterialStatus)
	protected.Put("/raw-material/:id", kitchen, h.Inventory.UpdateRawMaterialStatus)
	protected.Patch("/raw-material/:id", kitchen, h.Inventory.UpdateRawMaterial)
	protected.Delete("/raw-material/:id", owner, h.Inventory.DeleteRawMaterial)

	protected.Post("/orders", till, h.Orders.CreateOrder)
	protected.Get("/orders", till, h.Orders.GetOrders)
	protected.Get("/orders/:id", till, h.Orders.GetOrder)
	protected.Post("/orders/:id/cancel", owner, h.Orders.CancelOrder)

	protected.Get("/accounts", till, h.Ledger.GetAccounts)
	protected.Post("/accounts", owner, h.Ledger.CreateAccount)
	protected.Get("/transactions", owner, h.Ledger.GetTransactions)
	protected.Post("/transactions", owner, h.Ledger.CreateTransaction)

	// WebSocket Route
	if h.Hub != nil {
		app.Get("/ws", upgradeOnly, middleware.RequireAuth(h.Tokens), websocketHandler(h.Hub))
	}
}
