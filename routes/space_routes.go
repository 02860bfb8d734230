package routes

import (
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/gofiber/fiber/v2"
)

func SpaceRoutes(api fiber.Router, auth *middleware.Auth, h Handlers) {
	spaces := api.Group("/spaces")

	spaces.Get("", h.Spaces.List)
	spaces.Get("/:spaceId", h.Spaces.Get)
	spaces.Get("/:spaceId/reviews", h.Reviews.ListForSpace)

	spaces.Post("", with(hostOnly(auth), h.Spaces.Create)...)
	spaces.Put("/:spaceId", with(hostOnly(auth), h.Spaces.Update)...)
	spaces.Delete("/:spaceId", with(hostOnly(auth), h.Spaces.Delete)...)
	spaces.Post("/:spaceId/images", with(hostOnly(auth), h.Spaces.UploadImages)...)
	spaces.Delete("/:spaceId/images/:imageId", with(hostOnly(auth), h.Spaces.RemoveImage)...)

	spaces.Post("/:spaceId/reviews", with(userOnly(auth), h.Reviews.Create)...)
	spaces.Post("/:spaceId/favorite", with(userOnly(auth), h.Favorites.Toggle)...)

	reviews := api.Group("/reviews")
	reviews.Put("/:reviewId", with(userOnly(auth), h.Reviews.Update)...)
	reviews.Delete("/:reviewId", with(userOnly(auth), h.Reviews.Delete)...)
}
