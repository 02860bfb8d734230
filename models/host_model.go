package models

import "time"

const FreeTier = "free"

type Host struct {
	BaseModel
	FullName       string `gorm:"size:255;not null" json:"full_name"`
	Email          string `gorm:"size:255;not null;unique" json:"email"`
	Phone          string `gorm:"size:30" json:"phone"`
	Password       string `gorm:"not null" json:"-"`
	CompanyName    string `gorm:"size:255" json:"company_name"`
	CompanyAddress string `gorm:"size:255" json:"company_address"`
	IsVerified     bool   `gorm:"default:false" json:"is_verified"`
	IsLoggedIn     bool   `gorm:"default:false" json:"is_logged_in"`

	Subscription        string     `gorm:"size:100;not null;default:'free'" json:"subscription"`
	SubscriptionExpired *time.Time `json:"subscription_expired"`
	CurrentBalance      float64    `gorm:"type:numeric(12,2);not null;default:0" json:"current_balance"`
	Currency            string     `gorm:"size:3;not null;default:'NGN'" json:"currency"`

	BankName      string `gorm:"size:100" json:"bank_name"`
	BankCode      string `gorm:"size:20" json:"bank_code"`
	AccountNumber string `gorm:"size:20" json:"account_number"`
	AccountName   string `gorm:"size:255" json:"account_name"`
	RecipientCode string `gorm:"size:100" json:"-"`
}

func (h *Host) HasBankDetails() bool {
	return h.BankCode != "" && h.AccountNumber != "" && h.AccountName != ""
}
