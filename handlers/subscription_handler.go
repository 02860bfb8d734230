package handlers

import (
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	svc *services.SubscriptionService
}

func NewSubscriptionHandler(svc *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

func (h *SubscriptionHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.svc.ListPlans(c.UserContext(), false)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Plans retrieved successfully", plans)
}

func (h *SubscriptionHandler) AdminListPlans(c *fiber.Ctx) error {
	plans, err := h.svc.ListPlans(c.UserContext(), true)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Plans retrieved successfully", plans)
}

func (h *SubscriptionHandler) GetPlan(c *fiber.Ctx) error {
	id, err := paramID(c, "planId")
	if err != nil {
		return respondError(c, err)
	}
	plan, err := h.svc.GetPlan(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Plan retrieved successfully", plan)
}

func (h *SubscriptionHandler) CreatePlan(c *fiber.Ctx) error {
	var req services.PlanInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	plan, err := h.svc.CreatePlan(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Plan created successfully", plan)
}

func (h *SubscriptionHandler) UpdatePlan(c *fiber.Ctx) error {
	id, err := paramID(c, "planId")
	if err != nil {
		return respondError(c, err)
	}
	var req services.PlanUpdate
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	plan, err := h.svc.UpdatePlan(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Plan updated successfully", plan)
}

func (h *SubscriptionHandler) DeletePlan(c *fiber.Ctx) error {
	id, err := paramID(c, "planId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeletePlan(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Plan deleted successfully", nil)
}

func (h *SubscriptionHandler) Initialize(c *fiber.Ctx) error {
	var req services.InitializeSubscriptionInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	sub, err := h.svc.InitializeSubscription(c.UserContext(), middleware.CurrentPrincipal(c).ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Subscription initialized, complete payment to activate", fiber.Map{
		"subscription": sub,
		"checkout_url": sub.CheckoutURL,
		"reference":    sub.Reference,
	})
}

func (h *SubscriptionHandler) Verify(c *fiber.Ctx) error {
	reference := c.Query("reference")
	if reference == "" {
		return utils.Error(c, fiber.StatusBadRequest, "reference is required", "")
	}
	res, err := h.svc.VerifySubscription(c.UserContext(), reference)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, res.Message, res)
}

func (h *SubscriptionHandler) MySubscriptions(c *fiber.Ctx) error {
	subs, err := h.svc.ListHostSubscriptions(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Subscriptions retrieved successfully", subs)
}

func (h *SubscriptionHandler) Current(c *fiber.Ctx) error {
	sub, err := h.svc.CurrentSubscription(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Subscription retrieved successfully", sub)
}

func (h *SubscriptionHandler) AdminList(c *fiber.Ctx) error {
	subs, err := h.svc.ListAllSubscriptions(c.UserContext(), models.SubscriptionStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Subscriptions retrieved successfully", subs)
}

func (h *SubscriptionHandler) Sweep(c *fiber.Ctx) error {
	n, err := h.svc.SweepExpired(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Expired subscriptions swept", fiber.Map{"expired": n})
}
