package services

import (
	"context"
	"errors"
	"log"

	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/payments"
	"gorm.io/gorm"
)

// WebhookService routes gateway events to the workflow that owns the
// reference.
type WebhookService struct {
	db            *gorm.DB
	bookings      *BookingService
	subscriptions *SubscriptionService
	payouts       *PayoutService
}

func NewWebhookService(db *gorm.DB, bookings *BookingService, subscriptions *SubscriptionService, payouts *PayoutService) *WebhookService {
	return &WebhookService{db: db, bookings: bookings, subscriptions: subscriptions, payouts: payouts}
}

// Handle applies one event and returns a short outcome for the response. Only
// failures the gateway should retry are returned as errors.
func (s *WebhookService) Handle(ctx context.Context, event payments.WebhookEvent) (string, error) {
	ref := event.Data.Reference
	log.Printf("Received webhook %s for reference %s", event.Event, ref)

	switch event.Event {
	case payments.EventChargeSuccess:
		return s.chargeSuccess(ctx, ref)
	case payments.EventTransferSuccess:
		changed, err := s.payouts.CompleteTransfer(ctx, ref)
		if err != nil {
			return "", err
		}
		if !changed {
			return "ignored", nil
		}
		return "payout settled", nil
	case payments.EventTransferFailed, payments.EventTransferReversed:
		reason := event.Data.Reason
		if reason == "" {
			reason = event.Event
		}
		changed, err := s.payouts.FailTransfer(ctx, ref, reason)
		if err != nil {
			return "", err
		}
		if !changed {
			return "ignored", nil
		}
		return "payout failed", nil
	}
	return "ignored", nil
}

func (s *WebhookService) chargeSuccess(ctx context.Context, ref string) (string, error) {
	db := s.db.WithContext(ctx)

	var bookings int64
	if err := db.Model(&models.Booking{}).Where("reference = ?", ref).Count(&bookings).Error; err != nil {
		return "", err
	}
	if bookings > 0 {
		res, err := s.bookings.VerifyBooking(ctx, ref)
		if errors.Is(err, ErrBookingAlreadyConfirmed) {
			return "already processed", nil
		}
		if err != nil {
			return "", err
		}
		return res.Message, nil
	}

	var subs int64
	if err := db.Model(&models.Subscription{}).Where("reference = ?", ref).Count(&subs).Error; err != nil {
		return "", err
	}
	if subs > 0 {
		res, err := s.subscriptions.VerifySubscription(ctx, ref)
		if errors.Is(err, ErrSubscriptionProcessed) {
			return "already processed", nil
		}
		if err != nil {
			return "", err
		}
		return res.Message, nil
	}

	return "ignored", nil
}
