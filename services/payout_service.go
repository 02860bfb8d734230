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

type PayoutService struct {
	db      *gorm.DB
	gateway payments.Gateway
	outbox  Kicker
	now     func() time.Time
}

func NewPayoutService(db *gorm.DB, gateway payments.Gateway, outbox Kicker) *PayoutService {
	return &PayoutService{db: db, gateway: gateway, outbox: orNop(outbox), now: time.Now}
}

// InitiatePayout transfers the host's whole balance. The processing row is
// reserved under the host lock before the gateway is called, so a host has at
// most one payout in flight. The balance is only decremented when the
// transfer.success webhook arrives.
func (s *PayoutService) InitiatePayout(ctx context.Context, hostID uuid.UUID) (*models.Payment, error) {
	db := s.db.WithContext(ctx)

	reference, err := utils.GenerateReference(utils.PayoutPrefix)
	if err != nil {
		return nil, err
	}

	var host models.Host
	var payment models.Payment
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&host, "id = ?", hostID).Error; err != nil {
			return lookup(err, ErrHostNotFound)
		}
		if host.CurrentBalance <= 0 {
			return ErrInsufficientBalance
		}
		if !host.HasBankDetails() {
			return ErrMissingBankDetails
		}
		var inFlight int64
		if err := tx.Model(&models.Payment{}).
			Where("host_id = ? AND status = ?", hostID, models.PaymentProcessing).
			Count(&inFlight).Error; err != nil {
			return err
		}
		if inFlight > 0 {
			return ErrPayoutInProgress
		}

		payment = models.Payment{
			HostID:    host.ID,
			Amount:    host.CurrentBalance,
			Currency:  host.Currency,
			Reference: reference,
			Status:    models.PaymentProcessing,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	if host.RecipientCode == "" {
		code, err := s.gateway.CreateTransferRecipient(ctx, payments.RecipientRequest{
			Name:          host.AccountName,
			AccountNumber: host.AccountNumber,
			BankCode:      host.BankCode,
			Currency:      host.Currency,
		})
		if err != nil {
			log.Printf("🔥 Failed to create transfer recipient for host %s: %v", host.ID, err)
			s.abandon(ctx, &payment, err.Error())
			return nil, upstream(err)
		}
		if err := db.Model(&models.Host{}).Where("id = ?", host.ID).Update("recipient_code", code).Error; err != nil {
			s.abandon(ctx, &payment, err.Error())
			return nil, err
		}
		host.RecipientCode = code
	}

	transfer, err := s.gateway.InitiateTransfer(ctx, payments.TransferRequest{
		Amount:    payment.Amount,
		Recipient: host.RecipientCode,
		Reference: reference,
		Reason:    "SpaceHub host payout",
		Currency:  host.Currency,
	})
	if err == nil && transfer.Failed() {
		err = payments.ErrTransferFailed
	}
	if err != nil {
		log.Printf("🔥 Payout transfer failed for host %s: %v", host.ID, err)
		s.abandon(ctx, &payment, err.Error())
		return nil, upstream(err)
	}

	updates := map[string]interface{}{"transfer_code": transfer.TransferCode}
	if transfer.Reference != "" && transfer.Reference != payment.Reference {
		updates["reference"] = transfer.Reference
	}
	if err := db.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("record payout: %w", err)
	}
	payment.TransferCode = transfer.TransferCode
	if ref, ok := updates["reference"].(string); ok {
		payment.Reference = ref
	}
	log.Printf("✅ Payout %s of %.2f initiated for host %s", payment.Reference, payment.Amount, host.ID)
	return &payment, nil
}

// abandon marks a reserved payout failed with nothing transferred.
func (s *PayoutService) abandon(ctx context.Context, payment *models.Payment, reason string) {
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", payment.ID, models.PaymentProcessing).
		Updates(map[string]interface{}{
			"status":         models.PaymentFailed,
			"amount":         0,
			"failure_reason": reason,
		}).Error
	if err != nil {
		log.Printf("🔥 Failed to record failed payout for host %s: %v", payment.HostID, err)
	}
	payment.Status = models.PaymentFailed
	payment.Amount = 0
	payment.FailureReason = &reason
}

// CompleteTransfer settles a processing payout. Replays and unknown
// references are no-ops.
func (s *PayoutService) CompleteTransfer(ctx context.Context, reference string) (bool, error) {
	db := s.db.WithContext(ctx)

	var payment models.Payment
	err := db.Where("reference = ?", reference).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	changed := false
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentProcessing).
			Update("status", models.PaymentSuccess)
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		changed = true

		if err := tx.Model(&models.Host{}).Where("id = ?", payment.HostID).
			Update("current_balance", gorm.Expr("current_balance - ?", payment.Amount)).Error; err != nil {
			return err
		}
		var host models.Host
		if err := tx.First(&host, "id = ?", payment.HostID).Error; err != nil {
			return lookup(err, ErrHostNotFound)
		}
		to := notifications.Recipient{ID: host.ID, Email: host.Email, Name: host.FullName}
		return notifications.Enqueue(tx, notifications.PayoutSucceeded(to, &payment))
	})
	if err != nil {
		return false, err
	}
	if changed {
		s.outbox.Kick()
		log.Printf("✅ Payout %s settled", reference)
	}
	return changed, nil
}

// FailTransfer marks a processing payout failed; the balance is untouched.
func (s *PayoutService) FailTransfer(ctx context.Context, reference, reason string) (bool, error) {
	db := s.db.WithContext(ctx)

	var payment models.Payment
	err := db.Where("reference = ?", reference).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	changed := false
	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": models.PaymentFailed}
		if reason != "" {
			updates["failure_reason"] = reason
		}
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentProcessing).
			Updates(updates)
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		changed = true

		var host models.Host
		if err := tx.First(&host, "id = ?", payment.HostID).Error; err != nil {
			return lookup(err, ErrHostNotFound)
		}
		to := notifications.Recipient{ID: host.ID, Email: host.Email, Name: host.FullName}
		return notifications.Enqueue(tx, notifications.PayoutFailed(to, &payment))
	})
	if err != nil {
		return false, err
	}
	if changed {
		s.outbox.Kick()
	}
	return changed, nil
}

type Balance struct {
	CurrentBalance float64 `json:"current_balance"`
	Currency       string  `json:"currency"`
	Processing     float64 `json:"processing"`
}

func (s *PayoutService) GetBalance(ctx context.Context, hostID uuid.UUID) (*Balance, error) {
	db := s.db.WithContext(ctx)
	var host models.Host
	if err := db.First(&host, "id = ?", hostID).Error; err != nil {
		return nil, lookup(err, ErrHostNotFound)
	}
	var processing float64
	if err := db.Model(&models.Payment{}).
		Where("host_id = ? AND status = ?", hostID, models.PaymentProcessing).
		Select("COALESCE(SUM(amount), 0)").Scan(&processing).Error; err != nil {
		return nil, err
	}
	return &Balance{CurrentBalance: host.CurrentBalance, Currency: host.Currency, Processing: processing}, nil
}

func (s *PayoutService) ListHostPayouts(ctx context.Context, hostID uuid.UUID) ([]models.Payment, error) {
	var payouts []models.Payment
	err := s.db.WithContext(ctx).Where("host_id = ?", hostID).Order("created_at DESC").Find(&payouts).Error
	return payouts, err
}

func (s *PayoutService) ListAllPayouts(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var payouts []models.Payment
	return payouts, q.Find(&payouts).Error
}
