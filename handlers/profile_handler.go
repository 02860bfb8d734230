package handlers

import (
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.svc.GetUser(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Profile retrieved successfully", user)
}

func (h *ProfileHandler) UpdateUser(c *fiber.Ctx) error {
	var req services.UserProfileUpdate
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.svc.UpdateUser(c.UserContext(), middleware.CurrentPrincipal(c).ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Profile updated successfully", user)
}

func (h *ProfileHandler) GetHost(c *fiber.Ctx) error {
	host, err := h.svc.GetHost(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Profile retrieved successfully", host)
}

func (h *ProfileHandler) UpdateHost(c *fiber.Ctx) error {
	var req services.HostProfileUpdate
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	host, err := h.svc.UpdateHost(c.UserContext(), middleware.CurrentPrincipal(c).ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Profile updated successfully", host)
}
