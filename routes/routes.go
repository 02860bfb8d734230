package routes

import (
	"github.com/anjiri1684/spacehub/handlers"
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Profiles      *handlers.ProfileHandler
	Spaces        *handlers.SpaceHandler
	Bookings      *handlers.BookingHandler
	Subscriptions *handlers.SubscriptionHandler
	Payments      *handlers.PaymentHandler
	Catalog       *handlers.CatalogHandler
	Reviews       *handlers.ReviewHandler
	Favorites     *handlers.FavoriteHandler
	Admin         *handlers.AdminHandler
	Notifications *handlers.NotificationHandler
}

// Setup mounts every route group under /api/v1.
func Setup(app *fiber.App, auth *middleware.Auth, h Handlers) {
	api := app.Group("/api/v1")

	AuthRoutes(api, auth, h.Auth)
	PublicRoutes(api, h)
	ProfileRoutes(api, auth, h)
	SpaceRoutes(api, auth, h)
	BookingRoutes(api, auth, h.Bookings)
	SubscriptionRoutes(api, auth, h.Subscriptions)
	PaymentRoutes(api, auth, h.Payments)
	AdminRoutes(api, auth, h)
	NotificationRoutes(api, auth, h.Notifications)
}

func with(chain []fiber.Handler, hs ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+len(hs))
	out = append(out, chain...)
	return append(out, hs...)
}

func userOnly(auth *middleware.Auth) []fiber.Handler {
	return with(auth.Protected(), middleware.UserOnly())
}

func hostOnly(auth *middleware.Auth) []fiber.Handler {
	return with(auth.Protected(), middleware.HostOnly())
}

func adminOnly(auth *middleware.Auth) []fiber.Handler {
	return with(auth.Protected(), middleware.AdminOnly())
}
