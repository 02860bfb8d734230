package handlers

import (
	"fmt"

	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	svc      *services.BookingService
	receipts *services.ReceiptService
}

func NewBookingHandler(svc *services.BookingService, receipts *services.ReceiptService) *BookingHandler {
	return &BookingHandler{svc: svc, receipts: receipts}
}

// Initiate opens a pending booking priced per hour or per day.
func (h *BookingHandler) Initiate(unit services.BookingUnit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.BookingInput
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		booking, err := h.svc.InitiateBooking(c.UserContext(), middleware.CurrentPrincipal(c).ID, unit, req)
		if err != nil {
			return respondError(c, err)
		}
		return utils.Success(c, fiber.StatusCreated, "Booking initiated, complete payment to confirm", fiber.Map{
			"booking":      booking,
			"checkout_url": booking.CheckoutURL,
			"reference":    booking.Reference,
		})
	}
}

func (h *BookingHandler) Verify(c *fiber.Ctx) error {
	reference := c.Query("reference")
	if reference == "" {
		return utils.Error(c, fiber.StatusBadRequest, "reference is required", "")
	}
	res, err := h.svc.VerifyBooking(c.UserContext(), reference)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, res.Message, res)
}

func (h *BookingHandler) MyBookings(c *fiber.Ctx) error {
	bookings, err := h.svc.ListUserBookings(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) MyBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "bookingId")
	if err != nil {
		return respondError(c, err)
	}
	booking, err := h.svc.GetUserBooking(c.UserContext(), middleware.CurrentPrincipal(c).ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c, "bookingId")
	if err != nil {
		return respondError(c, err)
	}
	pdf, booking, err := h.receipts.BookingReceipt(c.UserContext(), middleware.CurrentPrincipal(c).ID, id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"receipt-%s.pdf\"", booking.Reference))
	return c.Status(fiber.StatusOK).Send(pdf)
}

func (h *BookingHandler) HostBookings(c *fiber.Ctx) error {
	bookings, err := h.svc.ListHostBookings(c.UserContext(), middleware.CurrentPrincipal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) AdminList(c *fiber.Ctx) error {
	bookings, err := h.svc.ListAllBookings(c.UserContext(), models.BookingStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "Bookings retrieved successfully", bookings)
}
