package routes

import "github.com/gofiber/fiber/v2"

func PublicRoutes(api fiber.Router, h Handlers) {
	api.Get("/categories", h.Catalog.ListCategories)
	api.Get("/categories/:categoryId", h.Catalog.GetCategory)
	api.Get("/locations", h.Catalog.ListLocations)
	api.Get("/locations/:locationId", h.Catalog.GetLocation)

	api.Get("/plans", h.Subscriptions.ListPlans)
	api.Get("/plans/:planId", h.Subscriptions.GetPlan)
}
