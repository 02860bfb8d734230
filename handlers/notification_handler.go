package handlers

import (
	"log"

	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	hub *websocket.Hub
}

func NewNotificationHandler(hub *websocket.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

// RequireUpgrade rejects plain HTTP requests on the websocket route.
func (h *NotificationHandler) RequireUpgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Feed streams live notifications to the authenticated principal.
func (h *NotificationHandler) Feed() fiber.Handler {
	return websocketcontrib.New(func(c *websocketcontrib.Conn) {
		p, ok := c.Locals(middleware.PrincipalLocal).(*services.Principal)
		if !ok {
			_ = c.WriteJSON(fiber.Map{"message": "Unauthenticated"})
			c.Close()
			return
		}
		log.Printf("WebSocket client connected: %s (%s)", p.ID, p.Kind)
		h.hub.Serve(p.ID, c)
		log.Printf("WebSocket client disconnected: %s", p.ID)
	})
}
