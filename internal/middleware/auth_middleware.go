package middleware

import (
	"strings"

	"chai-adda-pos/internal/model"
	"chai-adda-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalStoreID   = "store_id"
	LocalStoreCode = "store_code"
	LocalRole      = "role"
)

// RequireAuth validates the bearer token and puts the store and role it
// carries into the request locals. Websocket upgrades may pass the token as
// the "token" query parameter instead, since browsers cannot set headers there.
func RequireAuth(tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}
		if tokenString == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(LocalStoreID, claims.StoreID)
		c.Locals(LocalStoreCode, claims.StoreCode)
		c.Locals(LocalRole, model.Role(claims.Role))

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Query("token"), true
		}
		return "", true
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireRole allows the request through only for one of roles. It must run
// after RequireAuth.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(model.Role)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}

		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}

		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(names, ", ") + " roles",
		})
	}
}

// StoreID returns the authenticated store, or uuid.Nil outside RequireAuth.
func StoreID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalStoreID).(uuid.UUID)
	return id
}

// Role returns the authenticated role, or "" outside RequireAuth.
func Role(c *fiber.Ctx) model.Role {
	role, _ := c.Locals(LocalRole).(model.Role)
	return role
}
