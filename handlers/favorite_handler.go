package handlers

import (
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	svc *services.FavoriteService
}

func NewFavoriteHandler(svc *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) Toggle(c *fiber.Ctx) error {
	spaceID, err := paramID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	added, err := h.svc.ToggleFavorite(c.UserContext(), middleware.CurrentPrincipal(c).ID, spaceID)
	if err != nil {
		return respondError(c, err)
	}
	msg := "Space removed from favorites"
	if added {
		msg = "Space added to favorites"
	}
	return utils.Success(c, fiber.StatusOK, msg, fiber.Map{"favorite": added})
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	favorites, err := h.svc.ListFavorites(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Favorites retrieved successfully", favorites)
}
