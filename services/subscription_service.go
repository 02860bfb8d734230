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
	"gorm.io/gorm/clause"
)

type SubscriptionConfig struct {
	CallbackURL     string
	DefaultCurrency string
}

type SubscriptionService struct {
	db      *gorm.DB
	gateway payments.Gateway
	outbox  Kicker
	cfg     SubscriptionConfig
	now     func() time.Time
}

func NewSubscriptionService(db *gorm.DB, gateway payments.Gateway, outbox Kicker, cfg SubscriptionConfig) *SubscriptionService {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "NGN"
	}
	return &SubscriptionService{db: db, gateway: gateway, outbox: orNop(outbox), cfg: cfg, now: time.Now}
}

type PlanInput struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Description  string  `json:"description" validate:"omitempty,max=2000"`
	MaxListings  int     `json:"max_listings" validate:"required,min=1"`
	DurationDays int     `json:"duration_days" validate:"omitempty,min=1"`
}

type PlanUpdate struct {
	Name         *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Amount       *float64 `json:"amount" validate:"omitempty,gt=0"`
	Description  *string  `json:"description" validate:"omitempty,max=2000"`
	MaxListings  *int     `json:"max_listings" validate:"omitempty,min=1"`
	DurationDays *int     `json:"duration_days" validate:"omitempty,min=1"`
	IsActive     *bool    `json:"is_active"`
}

func (s *SubscriptionService) CreatePlan(ctx context.Context, in PlanInput) (*models.Plan, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	plan := models.Plan{
		Name:         in.Name,
		Amount:       in.Amount,
		Description:  in.Description,
		MaxListings:  in.MaxListings,
		DurationDays: in.DurationDays,
		IsActive:     true,
	}
	if plan.DurationDays == 0 {
		plan.DurationDays = 30
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("A plan with this name already exists")
		}
		return nil, err
	}
	return &plan, nil
}

func (s *SubscriptionService) UpdatePlan(ctx context.Context, planID uuid.UUID, in PlanUpdate) (*models.Plan, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var plan models.Plan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		return nil, lookup(err, ErrPlanNotFound)
	}
	if in.Name != nil {
		plan.Name = *in.Name
	}
	if in.Amount != nil {
		plan.Amount = *in.Amount
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.MaxListings != nil {
		plan.MaxListings = *in.MaxListings
	}
	if in.DurationDays != nil {
		plan.DurationDays = *in.DurationDays
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if err := s.db.WithContext(ctx).Save(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("A plan with this name already exists")
		}
		return nil, err
	}
	return &plan, nil
}

// DeletePlan removes a plan nobody subscribed to. Plans with history must be
// deactivated instead.
func (s *SubscriptionService) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.Plan
		if err := tx.First(&plan, "id = ?", planID).Error; err != nil {
			return lookup(err, ErrPlanNotFound)
		}
		var used int64
		if err := tx.Model(&models.Subscription{}).Where("plan_id = ?", planID).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return conflict("Plan has subscriptions, deactivate it instead")
		}
		return tx.Delete(&plan).Error
	})
}

func (s *SubscriptionService) ListPlans(ctx context.Context, includeInactive bool) ([]models.Plan, error) {
	q := s.db.WithContext(ctx).Order("amount ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var plans []models.Plan
	return plans, q.Find(&plans).Error
}

func (s *SubscriptionService) GetPlan(ctx context.Context, planID uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		return nil, lookup(err, ErrPlanNotFound)
	}
	return &plan, nil
}

type InitializeSubscriptionInput struct {
	PlanID uuid.UUID `json:"plan_id" validate:"required"`
}

func (s *SubscriptionService) InitializeSubscription(ctx context.Context, hostID uuid.UUID, in InitializeSubscriptionInput) (*models.Subscription, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var plan models.Plan
	if err := db.Where("id = ? AND is_active = ?", in.PlanID, true).First(&plan).Error; err != nil {
		return nil, lookup(err, ErrPlanNotFound)
	}

	reference, err := utils.GenerateReference(utils.SubscriptionPrefix)
	if err != nil {
		return nil, err
	}

	var host models.Host
	sub := models.Subscription{
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Amount:    plan.Amount,
		Reference: reference,
		Status:    models.SubscriptionPending,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&host, "id = ?", hostID).Error; err != nil {
			return lookup(err, ErrHostNotFound)
		}

		var count int64
		if err := tx.Model(&models.Subscription{}).
			Where("host_id = ? AND end_date > ?", hostID, s.now()).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSubscriptionAlreadyActive
		}
		if err := tx.Model(&models.Subscription{}).
			Where("host_id = ? AND status = ?", hostID, models.SubscriptionPending).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSubscriptionPending
		}

		sub.HostID = host.ID
		return tx.Create(&sub).Error
	})
	if err != nil {
		return nil, err
	}

	currency := host.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	charge, err := s.gateway.InitializeCharge(ctx, payments.ChargeRequest{
		Email:       host.Email,
		Amount:      plan.Amount,
		Currency:    currency,
		Reference:   reference,
		CallbackURL: s.cfg.CallbackURL,
		Metadata: map[string]string{
			"type":    "subscription",
			"plan_id": plan.ID.String(),
			"host_id": host.ID.String(),
		},
	})
	if err != nil {
		log.Printf("🔥 Failed to initialize subscription charge for host %s: %v", host.ID, err)
		if dbErr := db.Where("id = ? AND status = ?", sub.ID, models.SubscriptionPending).
			Delete(&models.Subscription{}).Error; dbErr != nil {
			log.Printf("🔥 Failed to release pending subscription %s: %v", sub.ID, dbErr)
		}
		return nil, upstream(err)
	}

	updates := map[string]interface{}{"checkout_url": charge.AuthorizationURL}
	if charge.Reference != "" && charge.Reference != reference {
		updates["reference"] = charge.Reference
	}
	if err := db.Model(&models.Subscription{}).Where("id = ?", sub.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("record subscription charge: %w", err)
	}
	sub.CheckoutURL = charge.AuthorizationURL
	if ref, ok := updates["reference"].(string); ok {
		sub.Reference = ref
	}
	return &sub, nil
}

// VerifySubscription activates a pending subscription once the gateway
// confirms the charge. Only pending subscriptions can be verified.
func (s *SubscriptionService) VerifySubscription(ctx context.Context, reference string) (*VerifyResult, error) {
	db := s.db.WithContext(ctx)

	var sub models.Subscription
	if err := db.Where("reference = ?", reference).First(&sub).Error; err != nil {
		return nil, lookup(err, ErrSubscriptionNotFound)
	}
	if sub.Status != models.SubscriptionPending {
		return nil, ErrSubscriptionProcessed
	}
	var host models.Host
	if err := db.First(&host, "id = ?", sub.HostID).Error; err != nil {
		return nil, lookup(err, ErrHostNotFound)
	}
	var plan models.Plan
	if err := db.First(&plan, "id = ?", sub.PlanID).Error; err != nil {
		return nil, lookup(err, ErrPlanNotFound)
	}

	status, err := s.gateway.VerifyCharge(ctx, reference)
	if err != nil {
		log.Printf("🔥 Failed to verify subscription charge %s: %v", reference, err)
		return nil, upstream(err)
	}
	to := notifications.Recipient{ID: host.ID, Email: host.Email, Name: host.FullName}

	if !status.Succeeded() {
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Subscription{}).
				Where("id = ? AND status = ?", sub.ID, models.SubscriptionPending).
				Update("status", models.SubscriptionFailed)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrSubscriptionProcessed
			}
			sub.Status = models.SubscriptionFailed
			return notifications.Enqueue(tx, notifications.SubscriptionFailed(to, &sub))
		})
		if err != nil {
			return nil, err
		}
		s.outbox.Kick()
		return &VerifyResult{Paid: false, Status: string(models.SubscriptionFailed), Message: "Payment verification failed"}, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		start := s.now()
		end := start.AddDate(0, 0, plan.DurationDays)

		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND status = ?", sub.ID, models.SubscriptionPending).
			Updates(map[string]interface{}{
				"status":     models.SubscriptionActive,
				"start_date": start,
				"end_date":   end,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSubscriptionProcessed
		}
		sub.Status = models.SubscriptionActive
		sub.StartDate = &start
		sub.EndDate = &end

		if err := tx.Model(&models.Host{}).Where("id = ?", host.ID).
			Updates(map[string]interface{}{
				"subscription":         plan.Name,
				"subscription_expired": end,
			}).Error; err != nil {
			return err
		}
		return notifications.Enqueue(tx, notifications.SubscriptionActivated(to, &sub))
	})
	if err != nil {
		return nil, err
	}
	s.outbox.Kick()
	log.Printf("✅ Subscription %s activated for host %s", sub.Reference, host.ID)
	return &VerifyResult{Paid: true, Status: string(models.SubscriptionActive), Message: "Subscription activated successfully"}, nil
}

// SweepExpired flips every active subscription whose end date has passed to
// expired and returns its host to the free tier.
func (s *SubscriptionService) SweepExpired(ctx context.Context) (int, error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	var due []models.Subscription
	err := db.Preload("Host").
		Where("status = ? AND end_date < ?", models.SubscriptionActive, now).
		Order("end_date DESC").
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		sub := &due[i]
		changed := false
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Subscription{}).
				Where("id = ? AND status = ?", sub.ID, models.SubscriptionActive).
				Update("status", models.SubscriptionExpired)
			if res.Error != nil || res.RowsAffected == 0 {
				return res.Error
			}
			changed = true

			var stillActive int64
			if err := tx.Model(&models.Subscription{}).
				Where("host_id = ? AND status = ? AND end_date >= ?", sub.HostID, models.SubscriptionActive, now).
				Count(&stillActive).Error; err != nil {
				return err
			}
			if stillActive == 0 {
				if err := tx.Model(&models.Host{}).Where("id = ?", sub.HostID).
					Update("subscription", models.FreeTier).Error; err != nil {
					return err
				}
			}

			to := notifications.Recipient{ID: sub.Host.ID, Email: sub.Host.Email, Name: sub.Host.FullName}
			return notifications.Enqueue(tx, notifications.SubscriptionExpired(to, sub))
		})
		if err != nil {
			log.Printf("🔥 Failed to expire subscription %s: %v", sub.ID, err)
			continue
		}
		if changed {
			expired++
		}
	}

	if expired > 0 {
		s.outbox.Kick()
		log.Printf("✅ Expired %d subscription(s)", expired)
	}
	return expired, nil
}

func (s *SubscriptionService) ListHostSubscriptions(ctx context.Context, hostID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.db.WithContext(ctx).Where("host_id = ?", hostID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (s *SubscriptionService) CurrentSubscription(ctx context.Context, hostID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("host_id = ? AND status = ? AND end_date > ?", hostID, models.SubscriptionActive, s.now()).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "end_date"}, Desc: true}).
		First(&sub).Error
	if err != nil {
		return nil, lookup(err, notFound("Active subscription"))
	}
	return &sub, nil
}

func (s *SubscriptionService) ListAllSubscriptions(ctx context.Context, status models.SubscriptionStatus) ([]models.Subscription, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var subs []models.Subscription
	return subs, q.Find(&subs).Error
}
