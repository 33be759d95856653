package handler

import (
	"chai-adda-pos/internal/middleware"
	"chai-adda-pos/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// upgradeOnly rejects plain HTTP requests on the websocket route.
func upgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// websocketHandler subscribes the connection to the events of the store in
// its token until the client goes away.
func websocketHandler(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		storeID, _ := c.Locals(middleware.LocalStoreID).(uuid.UUID)
		hub.Register(c, storeID)
		defer hub.Unregister(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
