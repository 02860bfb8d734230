package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/notifications"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) (*AuthService, *MemoryTokenStore) {
	db := openDB(t)
	store := NewMemoryTokenStore()
	svc := NewAuthService(db, store, &countingKicker{}, AuthConfig{JWTSecret: "test-secret", FrontendURL: "http://app.test"})
	return svc, store
}

func TestRegisterUserCreatesIdentityAndVerificationEmail(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, RegisterUserInput{FullName: "Ada Obi", Email: "Ada@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.IsVerified)

	var identity models.Identity
	require.NoError(t, svc.db.First(&identity, "id = ?", user.ID).Error)
	assert.Equal(t, models.KindUser, identity.Kind)

	mails := notificationsFor(t, svc.db, notifications.EventVerifyEmail)
	require.Len(t, mails, 1)
	assert.Contains(t, mails[0].Body, "http://app.test/verify-email?token=")

	_, err = svc.RegisterUser(ctx, RegisterUserInput{FullName: "Ada Again", Email: "ada@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSameEmailMayRegisterAsUserAndHost(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, RegisterUserInput{FullName: "Ada Obi", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	host, err := svc.RegisterHost(ctx, RegisterHostInput{FullName: "Ada Obi", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.FreeTier, host.Subscription)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newAuth(t)
	_, err := svc.RegisterUser(context.Background(), RegisterUserInput{FullName: "A", Email: "nope", Password: "1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	_, err := svc.RegisterHost(ctx, RegisterHostInput{FullName: "Kemi Host", Email: "kemi@host.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.KindHost, LoginInput{Email: "kemi@host.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	mails := notificationsFor(t, svc.db, notifications.EventVerifyEmail)
	require.Len(t, mails, 1)
	require.NoError(t, svc.VerifyEmail(ctx, tokenFromBody(t, mails[0].Body)))

	res, err := svc.Login(ctx, models.KindHost, LoginInput{Email: "kemi@host.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.KindHost, res.Principal.Kind)

	var host models.Host
	require.NoError(t, svc.db.First(&host, "id = ?", res.Principal.ID).Error)
	assert.True(t, host.IsLoggedIn)
	assert.True(t, host.IsVerified)

	_, err = svc.Login(ctx, models.KindUser, LoginInput{Email: "kemi@host.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newAuth(t)
	hashed, _ := bcrypt.GenerateFromPassword([]byte("right-one"), bcrypt.MinCost)
	u := seedUser(t, svc.db)
	require.NoError(t, svc.db.Model(&u).Update("password", string(hashed)).Error)

	_, err := svc.Login(context.Background(), models.KindUser, LoginInput{Email: u.Email, Password: "wrong-one"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueTokenClaims(t *testing.T) {
	svc, _ := newAuth(t)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)
	u := seedUser(t, svc.db)

	signed, exp, err := svc.IssueToken(Principal{ID: u.ID, Kind: models.KindUser, Email: u.Email})
	require.NoError(t, err)
	assert.Equal(t, now.Add(72*time.Hour), exp)

	claims := jwt.MapClaims{}
	_, _, err = new(jwt.Parser).ParseUnverified(signed, claims)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims["sub"])
	assert.Equal(t, "user", claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestLogoutRevokesTokenAndClearsSession(t *testing.T) {
	svc, store := newAuth(t)
	ctx := context.Background()
	u := seedUser(t, svc.db)
	require.NoError(t, svc.db.Model(&u).Update("is_logged_in", true).Error)

	p := Principal{ID: u.ID, Kind: models.KindUser, Email: u.Email}
	require.NoError(t, svc.Logout(ctx, p, "jti-1", time.Now().Add(time.Hour)))

	revoked, _ := store.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	var reloaded models.User
	require.NoError(t, svc.db.First(&reloaded, "id = ?", u.ID).Error)
	assert.False(t, reloaded.IsLoggedIn)
}

func TestResolvePrincipal(t *testing.T) {
	svc, _ := newAuth(t)
	h := seedHost(t, svc.db)

	p, err := svc.ResolvePrincipal(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KindHost, p.Kind)

	_, err = svc.ResolvePrincipal(context.Background(), seedSpace(t, svc.db, h.ID, 1).ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	u := seedUser(t, svc.db)

	require.NoError(t, svc.ForgotPassword(ctx, models.KindUser, ForgotPasswordInput{Email: "ghost@example.com"}))
	assert.Empty(t, notificationsFor(t, svc.db, notifications.EventPasswordReset))

	require.NoError(t, svc.ForgotPassword(ctx, models.KindUser, ForgotPasswordInput{Email: u.Email}))
	mails := notificationsFor(t, svc.db, notifications.EventPasswordReset)
	require.Len(t, mails, 1)
	token := tokenFromBody(t, mails[0].Body)

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordInput{Token: token, NewPassword: "brand-new"}))
	assert.ErrorIs(t, svc.ResetPassword(ctx, ResetPasswordInput{Token: token, NewPassword: "again-new"}), ErrInvalidToken)

	_, err := svc.Login(ctx, models.KindUser, LoginInput{Email: u.Email, Password: "brand-new"})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	u := seedUser(t, svc.db)
	require.NoError(t, svc.db.Model(&u).Update("password", string(hashed)).Error)
	p := Principal{ID: u.ID, Kind: models.KindUser, Email: u.Email}

	err := svc.ChangePassword(ctx, p, ChangePasswordInput{OldPassword: "nope", NewPassword: "new-pass"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, p, ChangePasswordInput{OldPassword: "old-pass", NewPassword: "new-pass"}))
	_, err = svc.Login(ctx, models.KindUser, LoginInput{Email: u.Email, Password: "new-pass"})
	assert.NoError(t, err)
}
