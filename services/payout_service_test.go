package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/notifications"
	"github.com/anjiri1684/spacehub/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withBank(balance float64) func(*models.Host) {
	return func(h *models.Host) {
		h.CurrentBalance = balance
		h.BankName = "GTBank"
		h.BankCode = "058"
		h.AccountNumber = "0123456789"
		h.AccountName = "Kemi Host"
	}
}

func newPayouts(t *testing.T) (*PayoutService, *mockGateway) {
	gw := &mockGateway{}
	return NewPayoutService(openDB(t), gw, &countingKicker{}), gw
}

func hostBalance(t *testing.T, svc *PayoutService, host models.Host) float64 {
	t.Helper()
	var h models.Host
	require.NoError(t, svc.db.First(&h, "id = ?", host.ID).Error)
	return h.CurrentBalance
}

func TestPayoutScenarioDrainsBalanceOnce(t *testing.T) {
	svc, gw := newPayouts(t)
	host := seedHost(t, svc.db, withBank(5000))
	ctx := context.Background()

	gw.On("CreateTransferRecipient", mock.Anything, mock.Anything).Return("RCP_1", nil).Once()
	gw.On("InitiateTransfer", mock.Anything, mock.MatchedBy(func(r payments.TransferRequest) bool {
		return r.Amount == 5000 && r.Recipient == "RCP_1"
	})).Return(&payments.Transfer{TransferCode: "TRF_1", Status: "pending"}, nil).Once()

	payment, err := svc.InitiatePayout(ctx, host.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProcessing, payment.Status)
	assert.Equal(t, 5000.0, payment.Amount)
	assert.Equal(t, 5000.0, hostBalance(t, svc, host))

	_, err = svc.InitiatePayout(ctx, host.ID)
	assert.ErrorIs(t, err, ErrPayoutInProgress)

	changed, err := svc.CompleteTransfer(ctx, payment.Reference)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0.0, hostBalance(t, svc, host))

	changed, err = svc.CompleteTransfer(ctx, payment.Reference)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0.0, hostBalance(t, svc, host))

	var stored models.Payment
	require.NoError(t, svc.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentSuccess, stored.Status)
	assert.Len(t, notificationsFor(t, svc.db, notifications.EventPayoutSucceeded), 1)

	var reloaded models.Host
	require.NoError(t, svc.db.First(&reloaded, "id = ?", host.ID).Error)
	assert.Equal(t, "RCP_1", reloaded.RecipientCode)

	_, err = svc.InitiatePayout(ctx, host.ID)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	gw.AssertExpectations(t)
}

func TestPayoutPreconditions(t *testing.T) {
	svc, _ := newPayouts(t)
	ctx := context.Background()

	broke := seedHost(t, svc.db)
	_, err := svc.InitiatePayout(ctx, broke.ID)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	noBank := seedHost(t, svc.db, func(h *models.Host) { h.CurrentBalance = 100 })
	_, err = svc.InitiatePayout(ctx, noBank.ID)
	assert.ErrorIs(t, err, ErrMissingBankDetails)
}

func TestPayoutTransferFailureRecordsZeroAmount(t *testing.T) {
	svc, gw := newPayouts(t)
	host := seedHost(t, svc.db, withBank(800), func(h *models.Host) { h.RecipientCode = "RCP_CACHED" })
	gw.On("InitiateTransfer", mock.Anything, mock.Anything).Return(nil, errors.New("Insufficient balance on integration"))

	_, err := svc.InitiatePayout(context.Background(), host.ID)
	require.ErrorIs(t, err, ErrUpstream)
	gw.AssertNotCalled(t, "CreateTransferRecipient", mock.Anything, mock.Anything)

	var payments []models.Payment
	require.NoError(t, svc.db.Where("host_id = ?", host.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentFailed, payments[0].Status)
	assert.Zero(t, payments[0].Amount)
	assert.Equal(t, 800.0, hostBalance(t, svc, host))
}

func TestConcurrentPayoutsTransferOnce(t *testing.T) {
	svc, gw := newPayouts(t)
	host := seedHost(t, svc.db, withBank(5000), func(h *models.Host) { h.RecipientCode = "RCP_1" })
	gw.On("InitiateTransfer", mock.Anything, mock.Anything).
		After(50*time.Millisecond).
		Return(&payments.Transfer{TransferCode: "TRF_1", Status: "pending"}, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	refs := make([]string, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.InitiatePayout(context.Background(), host.ID)
			errs[i] = err
			if err == nil {
				refs[i] = p.Reference
			}
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrPayoutInProgress, "request %d", i)
	}
	assert.Equal(t, 1, succeeded)
	gw.AssertNumberOfCalls(t, "InitiateTransfer", 1)

	var processing int64
	require.NoError(t, svc.db.Model(&models.Payment{}).
		Where("host_id = ? AND status = ?", host.ID, models.PaymentProcessing).
		Count(&processing).Error)
	assert.EqualValues(t, 1, processing)

	for _, ref := range refs {
		if ref == "" {
			continue
		}
		_, err := svc.CompleteTransfer(context.Background(), ref)
		require.NoError(t, err)
	}
	assert.Equal(t, 0.0, hostBalance(t, svc, host))
}

func TestPayoutImmediatelyFailedTransferRecordsZeroAmount(t *testing.T) {
	svc, gw := newPayouts(t)
	host := seedHost(t, svc.db, withBank(650), func(h *models.Host) { h.RecipientCode = "RCP_CACHED" })
	gw.On("InitiateTransfer", mock.Anything, mock.Anything).
		Return(&payments.Transfer{TransferCode: "TRF_9", Status: payments.TransferStatusFailed}, nil).Once()

	_, err := svc.InitiatePayout(context.Background(), host.ID)
	require.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, payments.ErrTransferFailed)

	var stored []models.Payment
	require.NoError(t, svc.db.Where("host_id = ?", host.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, models.PaymentFailed, stored[0].Status)
	assert.Zero(t, stored[0].Amount)
	require.NotNil(t, stored[0].FailureReason)
	assert.Equal(t, 650.0, hostBalance(t, svc, host))

	gw.On("InitiateTransfer", mock.Anything, mock.Anything).
		Return(&payments.Transfer{TransferCode: "TRF_10", Status: "pending"}, nil).Once()
	payment, err := svc.InitiatePayout(context.Background(), host.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProcessing, payment.Status)
}

func TestFailTransferLeavesBalance(t *testing.T) {
	svc, _ := newPayouts(t)
	host := seedHost(t, svc.db, withBank(300))
	p := models.Payment{HostID: host.ID, Amount: 300, Reference: "PO-X", Status: models.PaymentProcessing}
	require.NoError(t, svc.db.Create(&p).Error)

	changed, err := svc.FailTransfer(context.Background(), "PO-X", "Account closed")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 300.0, hostBalance(t, svc, host))

	changed, err = svc.CompleteTransfer(context.Background(), "PO-X")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 300.0, hostBalance(t, svc, host))

	changed, err = svc.FailTransfer(context.Background(), "PO-UNKNOWN", "")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestGetBalance(t *testing.T) {
	svc, _ := newPayouts(t)
	host := seedHost(t, svc.db, withBank(1200))
	require.NoError(t, svc.db.Create(&models.Payment{HostID: host.ID, Amount: 1200, Reference: "PO-B", Status: models.PaymentProcessing}).Error)

	bal, err := svc.GetBalance(context.Background(), host.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, bal.CurrentBalance)
	assert.Equal(t, 1200.0, bal.Processing)
}
