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
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var subNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newSubscriptions(t *testing.T) (*SubscriptionService, *mockGateway) {
	gw := &mockGateway{}
	svc := NewSubscriptionService(openDB(t), gw, &countingKicker{}, SubscriptionConfig{})
	svc.now = fixedClock(subNow)
	return svc, gw
}

func seedSubscription(t *testing.T, svc *SubscriptionService, host models.Host, plan models.Plan, status models.SubscriptionStatus, end *time.Time) models.Subscription {
	t.Helper()
	sub := models.Subscription{
		HostID: host.ID, PlanID: plan.ID, PlanName: plan.Name, Amount: plan.Amount,
		Reference: "SB-" + uuid.NewString()[:8], Status: status, EndDate: end,
	}
	require.NoError(t, svc.db.Create(&sub).Error)
	return sub
}

func TestPlanCRUD(t *testing.T) {
	svc, _ := newSubscriptions(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, PlanInput{Name: "pro", Amount: 9000, MaxListings: 10})
	require.NoError(t, err)
	assert.Equal(t, 30, plan.DurationDays)

	_, err = svc.CreatePlan(ctx, PlanInput{Name: "pro", Amount: 1, MaxListings: 1})
	assert.ErrorIs(t, err, ErrConflict)

	inactive := false
	_, err = svc.UpdatePlan(ctx, plan.ID, PlanUpdate{IsActive: &inactive})
	require.NoError(t, err)

	active, err := svc.ListPlans(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListPlans(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeletePlan(ctx, plan.ID))
	_, err = svc.GetPlan(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestDeletePlanWithHistoryIsRejected(t *testing.T) {
	svc, _ := newSubscriptions(t)
	host := seedHost(t, svc.db)
	plan := seedPlan(t, svc.db, "basic", 5)
	seedSubscription(t, svc, host, plan, models.SubscriptionFailed, nil)

	assert.ErrorIs(t, svc.DeletePlan(context.Background(), plan.ID), ErrConflict)
}

func TestInitializeSubscriptionCreatesPending(t *testing.T) {
	svc, gw := newSubscriptions(t)
	host := seedHost(t, svc.db)
	plan := seedPlan(t, svc.db, "basic", 5)
	gw.On("InitializeCharge", mock.Anything, mock.MatchedBy(func(r payments.ChargeRequest) bool {
		return r.Amount == plan.Amount && r.Email == host.Email
	})).Return(&payments.Charge{AuthorizationURL: "https://checkout.test/sb", Reference: "SB-GW"}, nil)

	sub, err := svc.InitializeSubscription(context.Background(), host.ID, InitializeSubscriptionInput{PlanID: plan.ID})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPending, sub.Status)
	assert.Equal(t, "SB-GW", sub.Reference)
	assert.Equal(t, "basic", sub.PlanName)

	_, err = svc.InitializeSubscription(context.Background(), host.ID, InitializeSubscriptionInput{PlanID: plan.ID})
	assert.ErrorIs(t, err, ErrSubscriptionPending)
}

func TestInitializeSubscriptionRejectsActive(t *testing.T) {
	svc, gw := newSubscriptions(t)
	host := seedHost(t, svc.db)
	plan := seedPlan(t, svc.db, "basic", 5)
	end := subNow.Add(10 * 24 * time.Hour)
	seedSubscription(t, svc, host, plan, models.SubscriptionActive, &end)

	_, err := svc.InitializeSubscription(context.Background(), host.ID, InitializeSubscriptionInput{PlanID: plan.ID})
	assert.ErrorIs(t, err, ErrSubscriptionAlreadyActive)
	gw.AssertNotCalled(t, "InitializeCharge", mock.Anything, mock.Anything)
}

func TestInitializeSubscriptionUnknownPlan(t *testing.T) {
	svc, _ := newSubscriptions(t)
	host := seedHost(t, svc.db)
	_, err := svc.InitializeSubscription(context.Background(), host.ID, InitializeSubscriptionInput{PlanID: uuid.New()})
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestInitializeSubscriptionGatewayError(t *testing.T) {
	svc, gw := newSubscriptions(t)
	host := seedHost(t, svc.db)
	plan := seedPlan(t, svc.db, "basic", 5)
	gw.On("InitializeCharge", mock.Anything, mock.Anything).Return(nil, errors.New("gateway down"))

	_, err := svc.InitializeSubscription(context.Background(), host.ID, InitializeSubscriptionInput{PlanID: plan.ID})
	assert.ErrorIs(t, err, ErrUpstream)

	var count int64
	svc.db.Model(&models.Subscription{}).Count(&count)
	assert.Zero(t, count)
}

func TestConcurrentInitializeKeepsOnePending(t *testing.T) {
	svc, gw := newSubscriptions(t)
	host := seedHost(t, svc.db)
	plan := seedPlan(t, svc.db, "basic", 5)
	gw.On("InitializeCharge", mock.Anything, mock.Anything).
		After(50*time.Millisecond).
		Return(&payments.Charge{AuthorizationURL: "https://checkout.test/sb"}, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.InitializeSubscription(context.Background(), host.ID, InitializeSubscriptionInput{PlanID: plan.ID})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSubscriptionPending)
	}
	assert.Equal(t, 1, succeeded)
	gw.AssertNumberOfCalls(t, "InitializeCharge", 1)

	var pending []models.Subscription
	require.NoError(t, svc.db.Where("host_id = ? AND status = ?", host.ID, models.SubscriptionPending).Find(&pending).Error)
	require.Len(t, pending, 1)
	assert.Equal(t, "https://checkout.test/sb", pending[0].CheckoutURL)
	assert.NotEmpty(t, pending[0].Reference)
}

func TestVerifySubscriptionActivatesAndUpgradesHost(t *testing.T) {
	svc, gw := newSubscriptions(t)
	host := seedHost(t, svc.db)
	plan := seedPlan(t, svc.db, "basic", 5)
	sub := seedSubscription(t, svc, host, plan, models.SubscriptionPending, nil)
	gw.On("VerifyCharge", mock.Anything, sub.Reference).Return(&payments.ChargeStatus{Status: "success"}, nil).Once()

	res, err := svc.VerifySubscription(context.Background(), sub.Reference)
	require.NoError(t, err)
	assert.True(t, res.Paid)

	var stored models.Subscription
	require.NoError(t, svc.db.First(&stored, "id = ?", sub.ID).Error)
	assert.Equal(t, models.SubscriptionActive, stored.Status)
	require.NotNil(t, stored.EndDate)
	assert.True(t, subNow.AddDate(0, 0, 30).Equal(*stored.EndDate))

	var reloaded models.Host
	require.NoError(t, svc.db.First(&reloaded, "id = ?", host.ID).Error)
	assert.Equal(t, "basic", reloaded.Subscription)
	require.NotNil(t, reloaded.SubscriptionExpired)
	assert.True(t, stored.EndDate.Equal(*reloaded.SubscriptionExpired))
	assert.Len(t, notificationsFor(t, svc.db, notifications.EventSubscriptionActive), 1)

	_, err = svc.VerifySubscription(context.Background(), sub.Reference)
	assert.ErrorIs(t, err, ErrSubscriptionProcessed)
	gw.AssertNumberOfCalls(t, "VerifyCharge", 1)
}

func TestVerifySubscriptionFailure(t *testing.T) {
	svc, gw := newSubscriptions(t)
	host := seedHost(t, svc.db)
	plan := seedPlan(t, svc.db, "basic", 5)
	sub := seedSubscription(t, svc, host, plan, models.SubscriptionPending, nil)
	gw.On("VerifyCharge", mock.Anything, sub.Reference).Return(&payments.ChargeStatus{Status: "abandoned"}, nil)

	res, err := svc.VerifySubscription(context.Background(), sub.Reference)
	require.NoError(t, err)
	assert.False(t, res.Paid)

	var stored models.Subscription
	require.NoError(t, svc.db.First(&stored, "id = ?", sub.ID).Error)
	assert.Equal(t, models.SubscriptionFailed, stored.Status)

	var reloaded models.Host
	require.NoError(t, svc.db.First(&reloaded, "id = ?", host.ID).Error)
	assert.Equal(t, models.FreeTier, reloaded.Subscription)
	assert.Len(t, notificationsFor(t, svc.db, notifications.EventSubscriptionFailed), 1)
}

func TestSweepExpiredOnlyTouchesLapsedActive(t *testing.T) {
	svc, _ := newSubscriptions(t)
	plan := seedPlan(t, svc.db, "basic", 5)
	lapsed := subNow.Add(-time.Hour)
	future := subNow.Add(time.Hour)

	expiredHost := seedHost(t, svc.db, func(h *models.Host) { h.Subscription = "basic" })
	activeHost := seedHost(t, svc.db, func(h *models.Host) { h.Subscription = "basic" })
	pendingHost := seedHost(t, svc.db)

	due := seedSubscription(t, svc, expiredHost, plan, models.SubscriptionActive, &lapsed)
	live := seedSubscription(t, svc, activeHost, plan, models.SubscriptionActive, &future)
	pending := seedSubscription(t, svc, pendingHost, plan, models.SubscriptionPending, &lapsed)
	failed := seedSubscription(t, svc, pendingHost, plan, models.SubscriptionFailed, &lapsed)

	n, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	status := func(id uuid.UUID) models.SubscriptionStatus {
		var s models.Subscription
		require.NoError(t, svc.db.First(&s, "id = ?", id).Error)
		return s.Status
	}
	assert.Equal(t, models.SubscriptionExpired, status(due.ID))
	assert.Equal(t, models.SubscriptionActive, status(live.ID))
	assert.Equal(t, models.SubscriptionPending, status(pending.ID))
	assert.Equal(t, models.SubscriptionFailed, status(failed.ID))

	var h models.Host
	require.NoError(t, svc.db.First(&h, "id = ?", expiredHost.ID).Error)
	assert.Equal(t, models.FreeTier, h.Subscription)
	require.NoError(t, svc.db.First(&h, "id = ?", activeHost.ID).Error)
	assert.Equal(t, "basic", h.Subscription)

	assert.Len(t, notificationsFor(t, svc.db, notifications.EventSubscriptionExpired), 1)

	n, err = svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCurrentSubscription(t *testing.T) {
	svc, _ := newSubscriptions(t)
	host := seedHost(t, svc.db)
	plan := seedPlan(t, svc.db, "basic", 5)

	_, err := svc.CurrentSubscription(context.Background(), host.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	end := subNow.Add(24 * time.Hour)
	sub := seedSubscription(t, svc, host, plan, models.SubscriptionActive, &end)
	got, err := svc.CurrentSubscription(context.Background(), host.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)
}
