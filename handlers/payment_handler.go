package handlers

import (
	"encoding/json"
	"log"

	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/payments"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	payouts   *services.PayoutService
	webhooks  *services.WebhookService
	secretKey string
}

func NewPaymentHandler(payouts *services.PayoutService, webhooks *services.WebhookService, secretKey string) *PaymentHandler {
	return &PaymentHandler{payouts: payouts, webhooks: webhooks, secretKey: secretKey}
}

// HandlePaymentWebhook receives Paystack events. The signature covers the raw
// body, so it is checked before anything is parsed.
func (h *PaymentHandler) HandlePaymentWebhook(c *fiber.Ctx) error {
	body := c.Body()
	if !payments.VerifySignature(h.secretKey, body, c.Get("x-paystack-signature")) {
		log.Printf("⚠️ Rejected webhook with invalid signature from %s", c.IP())
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid signature", "")
	}

	var event payments.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse webhook payload", "")
	}

	outcome, err := h.webhooks.Handle(c.UserContext(), event)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Webhook acknowledged", fiber.Map{"outcome": outcome})
}

func (h *PaymentHandler) RequestPayout(c *fiber.Ctx) error {
	payment, err := h.payouts.InitiatePayout(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "Payout initiated", payment)
}

func (h *PaymentHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.payouts.GetBalance(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Balance retrieved successfully", balance)
}

func (h *PaymentHandler) MyPayouts(c *fiber.Ctx) error {
	payouts, err := h.payouts.ListHostPayouts(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Payouts retrieved successfully", payouts)
}

func (h *PaymentHandler) AdminList(c *fiber.Ctx) error {
	payouts, err := h.payouts.ListAllPayouts(c.UserContext(), models.PaymentStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Payouts retrieved successfully", payouts)
}
