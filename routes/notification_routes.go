package routes

import (
	"github.com/anjiri1684/spacehub/handlers"
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(api fiber.Router, auth *middleware.Auth, h *handlers.NotificationHandler) {
	api.Get("/ws/notifications", with(auth.ProtectedQuery(), h.RequireUpgrade, h.Feed())...)
}
