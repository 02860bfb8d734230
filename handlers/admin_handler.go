package handlers

import (
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	profiles *services.ProfileService
	reviews  *services.ReviewService
}

func NewAdminHandler(profiles *services.ProfileService, reviews *services.ReviewService) *AdminHandler {
	return &AdminHandler{profiles: profiles, reviews: reviews}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.profiles.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Users retrieved successfully", users)
}

func (h *AdminHandler) ListHosts(c *fiber.Ctx) error {
	hosts, err := h.profiles.ListHosts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Hosts retrieved successfully", hosts)
}

func (h *AdminHandler) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListAllReviews(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Reviews retrieved successfully", reviews)
}

func (h *AdminHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := paramID(c, "reviewId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.reviews.DeleteReview(c.UserContext(), uuid.Nil, id); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Review deleted successfully", nil)
}
