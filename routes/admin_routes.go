package routes

import (
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(api fiber.Router, auth *middleware.Auth, h Handlers) {
	admin := api.Group("/admin", adminOnly(auth)...)

	admin.Get("/users", h.Admin.ListUsers)
	admin.Get("/hosts", h.Admin.ListHosts)

	admin.Get("/spaces", h.Spaces.AdminList)
	admin.Put("/spaces/:spaceId/approve", h.Spaces.Approve)
	admin.Put("/spaces/:spaceId/reject", h.Spaces.Reject)

	admin.Get("/bookings", h.Bookings.AdminList)

	admin.Get("/plans", h.Subscriptions.AdminListPlans)
	admin.Post("/plans", h.Subscriptions.CreatePlan)
	admin.Put("/plans/:planId", h.Subscriptions.UpdatePlan)
	admin.Delete("/plans/:planId", h.Subscriptions.DeletePlan)

	admin.Get("/subscriptions", h.Subscriptions.AdminList)
	admin.Post("/subscriptions/sweep", h.Subscriptions.Sweep)

	admin.Get("/payouts", h.Payments.AdminList)

	admin.Get("/reviews", h.Admin.ListReviews)
	admin.Delete("/reviews/:reviewId", h.Admin.DeleteReview)

	admin.Post("/categories", h.Catalog.CreateCategory)
	admin.Put("/categories/:categoryId", h.Catalog.UpdateCategory)
	admin.Delete("/categories/:categoryId", h.Catalog.DeleteCategory)
	admin.Post("/locations", h.Catalog.CreateLocation)
	admin.Put("/locations/:locationId", h.Catalog.UpdateLocation)
	admin.Delete("/locations/:locationId", h.Catalog.DeleteLocation)
}
