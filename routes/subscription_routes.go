package routes

import (
	"github.com/anjiri1684/spacehub/handlers"
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/gofiber/fiber/v2"
)

func SubscriptionRoutes(api fiber.Router, auth *middleware.Auth, h *handlers.SubscriptionHandler) {
	subs := api.Group("/subscriptions")

	subs.Get("/verify", h.Verify)
	subs.Post("/initialize", with(hostOnly(auth), h.Initialize)...)
	subs.Get("/me", with(hostOnly(auth), h.MySubscriptions)...)
	subs.Get("/current", with(hostOnly(auth), h.Current)...)
}
