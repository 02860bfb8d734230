package services

import (
	"context"

	"github.com/anjiri1684/spacehub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

type UserProfileUpdate struct {
	FullName          *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Phone             *string `json:"phone" validate:"omitempty,max=30"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
}

type HostProfileUpdate struct {
	FullName       *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	CompanyName    *string `json:"company_name" validate:"omitempty,max=255"`
	CompanyAddress *string `json:"company_address" validate:"omitempty,max=255"`
	BankName       *string `json:"bank_name" validate:"omitempty,max=100"`
	BankCode       *string `json:"bank_code" validate:"omitempty,numeric,max=20"`
	AccountNumber  *string `json:"account_number" validate:"omitempty,numeric,min=10,max=20"`
	AccountName    *string `json:"account_name" validate:"omitempty,max=255"`
}

func (s *ProfileService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, lookup(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *ProfileService) UpdateUser(ctx context.Context, id uuid.UUID, in UserProfileUpdate) (*models.User, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.FullName != nil {
		updates["full_name"] = *in.FullName
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.ProfilePictureURL != nil {
		updates["profile_picture_url"] = *in.ProfilePictureURL
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *ProfileService) GetHost(ctx context.Context, id uuid.UUID) (*models.Host, error) {
	var host models.Host
	if err := s.db.WithContext(ctx).First(&host, "id = ?", id).Error; err != nil {
		return nil, lookup(err, ErrHostNotFound)
	}
	return &host, nil
}

// UpdateHost applies profile changes. Changing any bank field drops the
// cached transfer recipient so the next payout registers a fresh one.
func (s *ProfileService) UpdateHost(ctx context.Context, id uuid.UUID, in HostProfileUpdate) (*models.Host, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	host, err := s.GetHost(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("full_name", in.FullName)
	set("phone", in.Phone)
	set("company_name", in.CompanyName)
	set("company_address", in.CompanyAddress)

	bankChanged := false
	bank := func(col string, v *string, current string) {
		if v != nil && *v != current {
			updates[col] = *v
			bankChanged = true
		}
	}
	bank("bank_name", in.BankName, host.BankName)
	bank("bank_code", in.BankCode, host.BankCode)
	bank("account_number", in.AccountNumber, host.AccountNumber)
	bank("account_name", in.AccountName, host.AccountName)
	if bankChanged {
		updates["recipient_code"] = ""
	}

	if len(updates) == 0 {
		return host, nil
	}
	if err := s.db.WithContext(ctx).Model(host).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetHost(ctx, id)
}

func (s *ProfileService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (s *ProfileService) ListHosts(ctx context.Context) ([]models.Host, error) {
	var hosts []models.Host
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&hosts).Error
	return hosts, err
}
