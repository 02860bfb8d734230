package routes

import (
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(api fiber.Router, auth *middleware.Auth, h Handlers) {
	user := api.Group("/users/me", userOnly(auth)...)
	user.Get("", h.Profiles.GetUser)
	user.Put("", h.Profiles.UpdateUser)
	user.Get("/favorites", h.Favorites.List)
	user.Get("/bookings", h.Bookings.MyBookings)

	host := api.Group("/hosts/me", hostOnly(auth)...)
	host.Get("", h.Profiles.GetHost)
	host.Put("", h.Profiles.UpdateHost)
	host.Get("/spaces", h.Spaces.HostSpaces)
	host.Get("/spaces/upload-signature", h.Spaces.UploadSignature)
	host.Get("/bookings", h.Bookings.HostBookings)
}
