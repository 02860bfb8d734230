package handlers

import (
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.svc.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "categoryId")
	if err != nil {
		return respondError(c, err)
	}
	category, err := h.svc.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Category retrieved successfully", category)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req services.CategoryInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := h.svc.CreateCategory(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Category created successfully", category)
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "categoryId")
	if err != nil {
		return respondError(c, err)
	}
	var req services.CategoryInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := h.svc.UpdateCategory(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Category updated successfully", category)
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "categoryId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Category deleted successfully", nil)
}

func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.svc.ListLocations(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Locations retrieved successfully", locations)
}

func (h *CatalogHandler) GetLocation(c *fiber.Ctx) error {
	id, err := paramID(c, "locationId")
	if err != nil {
		return respondError(c, err)
	}
	location, err := h.svc.GetLocation(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Location retrieved successfully", location)
}

func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var req services.LocationInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	location, err := h.svc.CreateLocation(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Location created successfully", location)
}

func (h *CatalogHandler) UpdateLocation(c *fiber.Ctx) error {
	id, err := paramID(c, "locationId")
	if err != nil {
		return respondError(c, err)
	}
	var req services.LocationInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	location, err := h.svc.UpdateLocation(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Location updated successfully", location)
}

func (h *CatalogHandler) DeleteLocation(c *fiber.Ctx) error {
	id, err := paramID(c, "locationId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteLocation(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Location deleted successfully", nil)
}
