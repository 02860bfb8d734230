package handlers

import (
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	svc *services.ReviewService
}

func NewReviewHandler(svc *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	spaceID, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ReviewInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	review, err := h.svc.CreateReview(c.UserContext(), middleware.CurrentPrincipal(c).ID, spaceID, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Review submitted successfully", review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "reviewId")
	if err != nil {
		return respondError(c, err)
	}
	var req services.ReviewUpdate
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	review, err := h.svc.UpdateReview(c.UserContext(), middleware.CurrentPrincipal(c).ID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Review updated successfully", review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "reviewId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteReview(c.UserContext(), middleware.CurrentPrincipal(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Review deleted successfully", nil)
}

func (h *ReviewHandler) ListForSpace(c *fiber.Ctx) error {
	spaceID, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	reviews, err := h.svc.ListSpaceReviews(c.UserContext(), spaceID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Reviews retrieved successfully", reviews)
}
