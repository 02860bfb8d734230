package routes

import (
	"github.com/anjiri1684/spacehub/handlers"
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/services"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(api fiber.Router, auth *middleware.Auth, h *handlers.BookingHandler) {
	booking := api.Group("/bookings")

	booking.Get("/verify", h.Verify)
	booking.Post("/hourly", with(userOnly(auth), h.Initiate(services.Hourly))...)
	booking.Post("/daily", with(userOnly(auth), h.Initiate(services.Daily))...)
	booking.Get("/me", with(userOnly(auth), h.MyBookings)...)
	booking.Get("/:bookingId", with(userOnly(auth), h.MyBooking)...)
	booking.Get("/:bookingId/receipt", with(userOnly(auth), h.Receipt)...)
}
