package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	errBadJSON   = services.NewError(services.ErrValidation, "Cannot parse JSON")
	errInvalidID = services.NewError(services.ErrValidation, "Invalid id")
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		log.Printf("🔥 [ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error", "")
	}

	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return utils.Error(c, fiber.StatusBadRequest, appErr.Message, "")
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, appErr.Message, "")
	case errors.Is(err, services.ErrUnauthorized):
		return utils.Error(c, fiber.StatusUnauthorized, appErr.Message, "")
	case errors.Is(err, services.ErrForbidden):
		return utils.Error(c, fiber.StatusForbidden, appErr.Message, "")
	case errors.Is(err, services.ErrUpstream):
		log.Printf("🔥 Upstream failure on %s %s: %v", c.Method(), c.Path(), err)
		return utils.Error(c, fiber.StatusInternalServerError, "Payment provider error", appErr.Message)
	}
	log.Printf("🔥 [ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
	return utils.Error(c, fiber.StatusInternalServerError, "Internal server error", "")
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errBadJSON
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, services.NewError(services.ErrValidation, "Invalid "+name)
	}
	return &id, nil
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}
