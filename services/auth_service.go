package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/notifications"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Principal is the authenticated caller, resolved from the token subject.
type Principal struct {
	ID    uuid.UUID            `json:"id"`
	Kind  models.PrincipalKind `json:"kind"`
	Email string               `json:"email"`
}

func (p Principal) Recipient(name string) notifications.Recipient {
	return notifications.Recipient{ID: p.ID, Email: p.Email, Name: name}
}

type AuthConfig struct {
	JWTSecret   string
	TokenTTL    time.Duration
	FrontendURL string
}

type AuthService struct {
	db     *gorm.DB
	tokens TokenStore
	outbox Kicker
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, tokens TokenStore, outbox Kicker, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	return &AuthService{db: db, tokens: tokens, outbox: orNop(outbox), cfg: cfg, now: time.Now}
}

type RegisterUserInput struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterHostInput struct {
	FullName       string `json:"full_name" validate:"required,min=3"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password       string `json:"password" validate:"required,min=6"`
	CompanyName    string `json:"company_name" validate:"omitempty,max=255"`
	CompanyAddress string `json:"company_address" validate:"omitempty,max=255"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Principal Principal `json:"principal"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) emailTaken(tx *gorm.DB, kind models.PrincipalKind, email string) (bool, error) {
	var count int64
	err := tx.Model(&models.Identity{}).Where("kind = ? AND email = ?", kind, email).Count(&count).Error
	return count > 0, err
}

func (s *AuthService) verificationLink(token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.cfg.FrontendURL, "/"), token)
}

// register creates the principal row, its identity and the verification email
// in one transaction.
func (s *AuthService) register(ctx context.Context, kind models.PrincipalKind, email, name string, create func(tx *gorm.DB) (uuid.UUID, error)) (uuid.UUID, error) {
	token, err := utils.GenerateToken(32)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.emailTaken(tx, kind, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		id, err = create(tx)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		if err := tx.Create(&models.Identity{ID: id, Kind: kind, Email: email}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}

		to := notifications.Recipient{ID: id, Email: email, Name: name}
		return notifications.Enqueue(tx, notifications.VerifyEmail(to, s.verificationLink(token)))
	})
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.tokens.SaveOneTime(ctx, PurposeVerifyEmail, token, subjectOf(kind, id), OneTimeTokenTTL); err != nil {
		log.Printf("🔥 Failed to store verification token for %s: %v", email, err)
	}
	s.outbox.Kick()
	return id, nil
}

func (s *AuthService) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		FullName: in.FullName,
		Email:    normalizeEmail(in.Email),
		Phone:    in.Phone,
		Password: string(hashed),
	}
	_, err = s.register(ctx, models.KindUser, user.Email, user.FullName, func(tx *gorm.DB) (uuid.UUID, error) {
		err := tx.Create(&user).Error
		return user.ID, err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) RegisterHost(ctx context.Context, in RegisterHostInput) (*models.Host, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	host := models.Host{
		FullName:       in.FullName,
		Email:          normalizeEmail(in.Email),
		Phone:          in.Phone,
		Password:       string(hashed),
		CompanyName:    in.CompanyName,
		CompanyAddress: in.CompanyAddress,
		Subscription:   models.FreeTier,
	}
	_, err = s.register(ctx, models.KindHost, host.Email, host.FullName, func(tx *gorm.DB) (uuid.UUID, error) {
		err := tx.Create(&host).Error
		return host.ID, err
	})
	if err != nil {
		return nil, err
	}
	return &host, nil
}

func subjectOf(kind models.PrincipalKind, id uuid.UUID) string {
	return string(kind) + ":" + id.String()
}

func parseSubject(subject string) (models.PrincipalKind, uuid.UUID, error) {
	kind, raw, ok := strings.Cut(subject, ":")
	if !ok {
		return "", uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", uuid.Nil, ErrInvalidToken
	}
	return models.PrincipalKind(kind), id, nil
}

func modelFor(kind models.PrincipalKind) (interface{}, error) {
	switch kind {
	case models.KindUser:
		return &models.User{}, nil
	case models.KindHost:
		return &models.Host{}, nil
	case models.KindAdmin:
		return &models.Admin{}, nil
	}
	return nil, ErrInvalidToken
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	subject, err := s.tokens.ConsumeOneTime(ctx, PurposeVerifyEmail, token)
	if err != nil {
		return err
	}
	kind, id, err := parseSubject(subject)
	if err != nil {
		return err
	}
	model, err := modelFor(kind)
	if err != nil || kind == models.KindAdmin {
		return ErrInvalidToken
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var identity models.Identity
		if err := tx.First(&identity, "id = ?", id).Error; err != nil {
			return lookup(err, notFound("Account"))
		}
		if err := tx.Model(model).Where("id = ?", id).Update("is_verified", true).Error; err != nil {
			return err
		}
		name := ""
		tx.Model(model).Where("id = ?", id).Select("full_name").Scan(&name)
		return notifications.Enqueue(tx, notifications.Welcome(notifications.Recipient{ID: id, Email: identity.Email, Name: name}))
	})
	if err != nil {
		return err
	}
	s.outbox.Kick()
	return nil
}

// ResendVerification issues a new verification link for an unverified account.
// Unknown or already verified accounts are ignored.
func (s *AuthService) ResendVerification(ctx context.Context, kind models.PrincipalKind, email string) error {
	email = normalizeEmail(email)
	acct, err := s.loadAccount(ctx, kind, email)
	if err != nil || acct.verified {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil
		}
		return err
	}

	token, err := utils.GenerateToken(32)
	if err != nil {
		return err
	}
	if err := s.tokens.SaveOneTime(ctx, PurposeVerifyEmail, token, subjectOf(kind, acct.id), OneTimeTokenTTL); err != nil {
		return err
	}
	to := notifications.Recipient{ID: acct.id, Email: email, Name: acct.name}
	if err := notifications.Enqueue(s.db.WithContext(ctx), notifications.VerifyEmail(to, s.verificationLink(token))); err != nil {
		return err
	}
	s.outbox.Kick()
	return nil
}

type account struct {
	id       uuid.UUID
	name     string
	password string
	verified bool
}

func (s *AuthService) loadAccount(ctx context.Context, kind models.PrincipalKind, email string) (*account, error) {
	var identity models.Identity
	err := s.db.WithContext(ctx).Where("kind = ? AND email = ?", kind, email).First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	switch kind {
	case models.KindUser:
		var u models.User
		if err := s.db.WithContext(ctx).First(&u, "id = ?", identity.ID).Error; err != nil {
			return nil, lookup(err, ErrInvalidCredentials)
		}
		return &account{id: u.ID, name: u.FullName, password: u.Password, verified: u.IsVerified}, nil
	case models.KindHost:
		var h models.Host
		if err := s.db.WithContext(ctx).First(&h, "id = ?", identity.ID).Error; err != nil {
			return nil, lookup(err, ErrInvalidCredentials)
		}
		return &account{id: h.ID, name: h.FullName, password: h.Password, verified: h.IsVerified}, nil
	default:
		var a models.Admin
		if err := s.db.WithContext(ctx).First(&a, "id = ?", identity.ID).Error; err != nil {
			return nil, lookup(err, ErrInvalidCredentials)
		}
		return &account{id: a.ID, name: a.FullName, password: a.Password, verified: true}, nil
	}
}

func (s *AuthService) Login(ctx context.Context, kind models.PrincipalKind, in LoginInput) (*LoginResult, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	acct, err := s.loadAccount(ctx, kind, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.password), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !acct.verified {
		return nil, ErrEmailNotVerified
	}

	model, _ := modelFor(kind)
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", acct.id).Update("is_logged_in", true).Error; err != nil {
		return nil, err
	}

	principal := Principal{ID: acct.id, Kind: kind, Email: email}
	token, exp, err := s.IssueToken(principal)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Principal: principal}, nil
}

// IssueToken signs an HS256 token whose subject is the identity id.
func (s *AuthService) IssueToken(p Principal) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   p.ID.String(),
		"role":  string(p.Kind),
		"email": p.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ResolvePrincipal maps a token subject to its principal with one identity
// lookup.
func (s *AuthService) ResolvePrincipal(ctx context.Context, id uuid.UUID) (*Principal, error) {
	var identity models.Identity
	if err := s.db.WithContext(ctx).First(&identity, "id = ?", id).Error; err != nil {
		return nil, lookup(err, &AppError{Kind: ErrForbidden, Message: "Invalid or expired token"})
	}
	return &Principal{ID: identity.ID, Kind: identity.Kind, Email: identity.Email}, nil
}

func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.tokens.IsRevoked(ctx, jti)
}

func (s *AuthService) Logout(ctx context.Context, p Principal, jti string, expiresAt time.Time) error {
	if jti != "" {
		if err := s.tokens.Revoke(ctx, jti, expiresAt.Sub(s.now())); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}
	model, err := modelFor(p.Kind)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(model).Where("id = ?", p.ID).Update("is_logged_in", false).Error
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

func (s *AuthService) ChangePassword(ctx context.Context, p Principal, in ChangePasswordInput) error {
	if err := Validate(in); err != nil {
		return err
	}
	acct, err := s.loadAccount(ctx, p.Kind, p.Email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.password), []byte(in.OldPassword)); err != nil {
		return &AppError{Kind: ErrValidation, Message: "Old password is incorrect"}
	}
	return s.setPassword(ctx, p.Kind, p.ID, in.NewPassword)
}

func (s *AuthService) setPassword(ctx context.Context, kind models.PrincipalKind, id uuid.UUID, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	model, err := modelFor(kind)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("password", string(hashed)).Error
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword mails a reset link. Unknown emails are ignored so the
// response does not reveal which accounts exist.
func (s *AuthService) ForgotPassword(ctx context.Context, kind models.PrincipalKind, in ForgotPasswordInput) error {
	if err := Validate(in); err != nil {
		return err
	}
	email := normalizeEmail(in.Email)
	acct, err := s.loadAccount(ctx, kind, email)
	if errors.Is(err, ErrInvalidCredentials) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := utils.GenerateToken(32)
	if err != nil {
		return err
	}
	if err := s.tokens.SaveOneTime(ctx, PurposePasswordReset, token, subjectOf(kind, acct.id), OneTimeTokenTTL); err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.cfg.FrontendURL, "/"), token)
	to := notifications.Recipient{ID: acct.id, Email: email, Name: acct.name}
	if err := notifications.Enqueue(s.db.WithContext(ctx), notifications.PasswordReset(to, link)); err != nil {
		return err
	}
	s.outbox.Kick()
	return nil
}

type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := Validate(in); err != nil {
		return err
	}
	subject, err := s.tokens.ConsumeOneTime(ctx, PurposePasswordReset, in.Token)
	if err != nil {
		return err
	}
	kind, id, err := parseSubject(subject)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, kind, id, in.NewPassword)
}
