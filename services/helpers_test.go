package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/spacehub/database/dbtest"
	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/payments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) InitializeCharge(ctx context.Context, req payments.ChargeRequest) (*payments.Charge, error) {
	args := m.Called(ctx, req)
	if c, ok := args.Get(0).(*payments.Charge); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) VerifyCharge(ctx context.Context, reference string) (*payments.ChargeStatus, error) {
	args := m.Called(ctx, reference)
	if s, ok := args.Get(0).(*payments.ChargeStatus); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) CreateTransferRecipient(ctx context.Context, req payments.RecipientRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) InitiateTransfer(ctx context.Context, req payments.TransferRequest) (*payments.Transfer, error) {
	args := m.Called(ctx, req)
	if t, ok := args.Get(0).(*payments.Transfer); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

type countingKicker struct {
	mu    sync.Mutex
	kicks int
}

func (k *countingKicker) Kick() {
	k.mu.Lock()
	k.kicks++
	k.mu.Unlock()
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	u := models.User{FullName: "Ada Obi", Email: uuid.NewString()[:8] + "@example.com", Password: "x", IsVerified: true}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&models.Identity{ID: u.ID, Kind: models.KindUser, Email: u.Email}).Error)
	return u
}

func seedHost(t *testing.T, db *gorm.DB, mutate ...func(*models.Host)) models.Host {
	t.Helper()
	h := models.Host{
		FullName:     "Kemi Host",
		Email:        uuid.NewString()[:8] + "@host.com",
		Password:     "x",
		IsVerified:   true,
		Subscription: models.FreeTier,
		Currency:     "NGN",
	}
	for _, m := range mutate {
		m(&h)
	}
	require.NoError(t, db.Create(&h).Error)
	require.NoError(t, db.Create(&models.Identity{ID: h.ID, Kind: models.KindHost, Email: h.Email}).Error)
	return h
}

func seedSpace(t *testing.T, db *gorm.DB, hostID uuid.UUID, capacity int, mutate ...func(*models.Space)) models.Space {
	t.Helper()
	s := models.Space{
		HostID:          hostID,
		Name:            "Studio Loft",
		PricePerHour:    100,
		PricePerDay:     700,
		Capacity:        capacity,
		InitialCapacity: capacity,
		IsAvailable:     capacity > 0,
		ListingStatus:   models.ListingActive,
		IsApproved:      true,
	}
	for _, m := range mutate {
		m(&s)
	}
	require.NoError(t, db.Create(&s).Error)
	if !s.IsAvailable {
		require.NoError(t, db.Model(&s).Update("is_available", false).Error)
	}
	return s
}

func seedPlan(t *testing.T, db *gorm.DB, name string, maxListings int) models.Plan {
	t.Helper()
	p := models.Plan{Name: name, Amount: 5000, MaxListings: maxListings, DurationDays: 30, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func notificationsFor(t *testing.T, db *gorm.DB, event string) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, db.Where("event = ?", event).Find(&rows).Error)
	return rows
}

// tokenFromBody pulls the token query parameter out of an emailed link.
func tokenFromBody(t *testing.T, body string) string {
	t.Helper()
	i := strings.Index(body, "token=")
	require.NotEqual(t, -1, i, "no token in %s", body)
	rest := body[i+len("token="):]
	return rest[:strings.IndexAny(rest, "'\"")]
}

func openDB(t *testing.T) *gorm.DB {
	return dbtest.Open(t)
}
