package routes

import (
	"github.com/anjiri1684/spacehub/handlers"
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(api fiber.Router, auth *middleware.Auth, h *handlers.PaymentHandler) {
	api.Post("/payments/webhook", h.HandlePaymentWebhook)

	payouts := api.Group("/payouts", hostOnly(auth)...)
	payouts.Post("", h.RequestPayout)
	payouts.Get("/me", h.MyPayouts)
	payouts.Get("/balance", h.Balance)
}
