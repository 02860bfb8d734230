package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/notifications"
	"github.com/anjiri1684/spacehub/payments"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const reasonSpaceFull = "space fully booked"

type BookingUnit string

const (
	Hourly BookingUnit = "hourly"
	Daily  BookingUnit = "daily"
)

type BookingConfig struct {
	CallbackURL     string
	DefaultCurrency string
}

type BookingService struct {
	db      *gorm.DB
	gateway payments.Gateway
	outbox  Kicker
	cfg     BookingConfig
	now     func() time.Time
}

func NewBookingService(db *gorm.DB, gateway payments.Gateway, outbox Kicker, cfg BookingConfig) *BookingService {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "NGN"
	}
	return &BookingService{db: db, gateway: gateway, outbox: orNop(outbox), cfg: cfg, now: time.Now}
}

type BookingInput struct {
	SpaceID     uuid.UUID `json:"space_id" validate:"required"`
	Duration    int       `json:"duration" validate:"required,min=1"`
	StartDate   string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	CheckinTime string    `json:"checkin_time" validate:"required,datetime=15:04"`
}

// InitiateBooking prices the booking, opens a gateway charge and stores the
// booking as pending. Nothing else changes until the charge is verified.
func (s *BookingService) InitiateBooking(ctx context.Context, userID uuid.UUID, unit BookingUnit, in BookingInput) (*models.Booking, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if unit != Hourly && unit != Daily {
		return nil, invalid("Unknown booking type")
	}
	startDate, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return nil, invalid("start_date must be YYYY-MM-DD")
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, lookup(err, ErrUserNotFound)
	}
	var space models.Space
	if err := db.First(&space, "id = ?", in.SpaceID).Error; err != nil {
		return nil, lookup(err, ErrSpaceNotFound)
	}
	if space.Capacity <= 0 {
		return nil, ErrSpaceFullyBooked
	}
	if !space.IsAvailable || space.ListingStatus != models.ListingActive {
		return nil, ErrSpaceUnavailable
	}
	var host models.Host
	if err := db.First(&host, "id = ?", space.HostID).Error; err != nil {
		return nil, lookup(err, ErrHostNotFound)
	}

	booking := models.Booking{
		UserID:      user.ID,
		SpaceID:     space.ID,
		HostID:      host.ID,
		UserName:    user.FullName,
		SpaceName:   space.Name,
		StartDate:   startDate,
		CheckinTime: in.CheckinTime,
		Currency:    host.Currency,
		Status:      models.BookingPending,
	}
	if booking.Currency == "" {
		booking.Currency = s.cfg.DefaultCurrency
	}
	duration := in.Duration
	if unit == Hourly {
		booking.DurationPerHour = &duration
		booking.Amount = float64(duration) * space.PricePerHour
	} else {
		booking.DurationPerDay = &duration
		booking.Amount = float64(duration) * space.PricePerDay
	}
	booking.StartTime = booking.StartsAt()

	reference, err := utils.GenerateReference(utils.BookingPrefix)
	if err != nil {
		return nil, err
	}

	charge, err := s.gateway.InitializeCharge(ctx, payments.ChargeRequest{
		Email:       user.Email,
		Amount:      booking.Amount,
		Currency:    booking.Currency,
		Reference:   reference,
		CallbackURL: s.cfg.CallbackURL,
		Metadata: map[string]string{
			"type":     "booking",
			"space_id": space.ID.String(),
			"user_id":  user.ID.String(),
		},
	})
	if err != nil {
		log.Printf("🔥 Failed to initialize booking charge for user %s: %v", user.ID, err)
		return nil, upstream(err)
	}

	booking.Reference = reference
	if charge.Reference != "" {
		booking.Reference = charge.Reference
	}
	booking.CheckoutURL = charge.AuthorizationURL
	if err := db.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &booking, nil
}

type VerifyResult struct {
	Paid    bool   `json:"paid"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// VerifyBooking reconciles a pending booking with the gateway. Confirmation
// transitions the booking, takes one unit of capacity and credits the host in
// a single transaction.
func (s *BookingService) VerifyBooking(ctx context.Context, reference string) (*VerifyResult, error) {
	db := s.db.WithContext(ctx)

	var booking models.Booking
	if err := db.Where("reference = ?", reference).First(&booking).Error; err != nil {
		return nil, lookup(err, ErrBookingNotFound)
	}
	if booking.Status != models.BookingPending {
		return nil, ErrBookingAlreadyConfirmed
	}
	var user models.User
	if err := db.First(&user, "id = ?", booking.UserID).Error; err != nil {
		return nil, lookup(err, ErrUserNotFound)
	}
	var space models.Space
	if err := db.First(&space, "id = ?", booking.SpaceID).Error; err != nil {
		return nil, lookup(err, ErrSpaceNotFound)
	}

	status, err := s.gateway.VerifyCharge(ctx, reference)
	if err != nil {
		log.Printf("🔥 Failed to verify booking charge %s: %v", reference, err)
		return nil, upstream(err)
	}

	payer := notifications.Recipient{ID: user.ID, Email: user.Email, Name: user.FullName}
	if !status.Succeeded() {
		return s.failBooking(ctx, &booking, payer, status)
	}

	result := &VerifyResult{Paid: true}
	err = db.Transaction(func(tx *gorm.DB) error {
		now := s.now()
		endDate := booking.ComputeEndDate()
		next := models.BookingActive
		if now.Before(booking.StartsAt()) {
			next = models.BookingUpcoming
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, models.BookingPending).
			Updates(map[string]interface{}{
				"status":       next,
				"end_date":     endDate,
				"payment_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookingAlreadyConfirmed
		}
		booking.Status = next
		booking.EndDate = &endDate
		booking.PaymentDate = &now

		res = tx.Model(&models.Space{}).
			Where("id = ? AND capacity > 0", booking.SpaceID).
			Updates(map[string]interface{}{
				"capacity":      gorm.Expr("capacity - 1"),
				"booking_count": gorm.Expr("booking_count + 1"),
				"is_available":  gorm.Expr("capacity - 1 > 0"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			reason := reasonSpaceFull
			if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
				Updates(map[string]interface{}{"status": models.BookingFailed, "failure_reason": reason}).Error; err != nil {
				return err
			}
			booking.Status = models.BookingFailed
			booking.FailureReason = &reason
			result.Paid = false
			return notifications.Enqueue(tx, notifications.BookingRefundPending(payer, &booking))
		}

		res = tx.Model(&models.Host{}).Where("id = ?", booking.HostID).
			Update("current_balance", gorm.Expr("current_balance + ?", booking.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrHostNotFound
		}

		if err := notifications.Enqueue(tx, notifications.BookingConfirmed(payer, &booking)); err != nil {
			return err
		}
		var host models.Host
		if err := tx.First(&host, "id = ?", booking.HostID).Error; err != nil {
			return lookup(err, ErrHostNotFound)
		}
		to := notifications.Recipient{ID: host.ID, Email: host.Email, Name: host.FullName}
		return notifications.Enqueue(tx, notifications.BookingReceived(to, &booking))
	})
	if err != nil {
		return nil, err
	}
	s.outbox.Kick()

	result.Status = string(booking.Status)
	if result.Paid {
		result.Message = "Booking confirmed successfully"
		log.Printf("✅ Booking %s confirmed", booking.Reference)
	} else {
		result.Message = "Space is fully booked, a refund will be processed"
		log.Printf("⚠️ Booking %s paid but space %s is full", booking.Reference, booking.SpaceID)
	}
	return result, nil
}

func (s *BookingService) failBooking(ctx context.Context, booking *models.Booking, payer notifications.Recipient, status *payments.ChargeStatus) (*VerifyResult, error) {
	reason := status.GatewayResponse
	if reason == "" {
		reason = "payment " + status.Status
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, models.BookingPending).
			Updates(map[string]interface{}{"status": models.BookingFailed, "failure_reason": reason})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookingAlreadyConfirmed
		}
		booking.Status = models.BookingFailed
		return notifications.Enqueue(tx, notifications.BookingFailed(payer, booking))
	})
	if err != nil {
		return nil, err
	}
	s.outbox.Kick()
	return &VerifyResult{Paid: false, Status: string(models.BookingFailed), Message: "Payment verification failed"}, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) ListHostBookings(ctx context.Context, hostID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).Where("host_id = ?", hostID).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) ListAllBookings(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var bookings []models.Booking
	return bookings, q.Find(&bookings).Error
}

func (s *BookingService) GetUserBooking(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, lookup(err, ErrBookingNotFound)
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return &booking, nil
}

// SweepStatuses moves upcoming bookings to active once they start and expires
// active bookings once they end, returning one unit of capacity each.
func (s *BookingService) SweepStatuses(ctx context.Context) (activated, expired int, err error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	res := db.Model(&models.Booking{}).
		Where("status = ? AND start_time <= ?", models.BookingUpcoming, now).
		Update("status", models.BookingActive)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	activated = int(res.RowsAffected)

	var ended []models.Booking
	if err := db.Where("status = ? AND end_date < ?", models.BookingActive, now).Find(&ended).Error; err != nil {
		return activated, 0, err
	}

	for _, b := range ended {
		changed := false
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Booking{}).
				Where("id = ? AND status = ?", b.ID, models.BookingActive).
				Update("status", models.BookingExpired)
			if res.Error != nil || res.RowsAffected == 0 {
				return res.Error
			}
			changed = true

			res = tx.Model(&models.Space{}).
				Where("id = ? AND capacity < initial_capacity", b.SpaceID).
				Update("capacity", gorm.Expr("capacity + 1"))
			if res.Error != nil {
				return res.Error
			}
			return tx.Model(&models.Space{}).
				Where("id = ? AND listing_status = ? AND capacity > 0", b.SpaceID, models.ListingActive).
				Update("is_available", true).Error
		})
		if err != nil {
			log.Printf("🔥 Failed to expire booking %s: %v", b.ID, err)
			continue
		}
		if changed {
			expired++
		}
	}
	return activated, expired, nil
}

// SendReminders records one reminder per upcoming booking that starts within
// the next hour.
func (s *BookingService) SendReminders(ctx context.Context) (int, error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	var due []models.Booking
	err := db.Preload("User").
		Where("status = ? AND reminder_sent_at IS NULL AND start_time > ? AND start_time <= ?",
			models.BookingUpcoming, now, now.Add(time.Hour)).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		b := &due[i]
		queued := false
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Booking{}).
				Where("id = ? AND reminder_sent_at IS NULL", b.ID).
				Update("reminder_sent_at", now)
			if res.Error != nil || res.RowsAffected == 0 {
				return res.Error
			}
			to := notifications.Recipient{ID: b.User.ID, Email: b.User.Email, Name: b.User.FullName}
			if err := notifications.Enqueue(tx, notifications.BookingReminder(to, b)); err != nil {
				return err
			}
			queued = true
			return nil
		})
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("🔥 Failed to queue reminder for booking %s: %v", b.ID, err)
			}
			continue
		}
		if queued {
			sent++
		}
	}
	if sent > 0 {
		s.outbox.Kick()
	}
	return sent, nil
}
