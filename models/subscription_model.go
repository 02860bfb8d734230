package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionPending SubscriptionStatus = "pending"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
	SubscriptionFailed  SubscriptionStatus = "failed"
)

type Subscription struct {
	BaseModel
	HostID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"host_id"`
	PlanID      uuid.UUID          `gorm:"type:uuid;not null" json:"plan_id"`
	PlanName    string             `gorm:"size:100" json:"plan_name"`
	Amount      float64            `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reference   string             `gorm:"size:100;not null;uniqueIndex" json:"reference"`
	CheckoutURL string             `gorm:"size:500" json:"checkout_url,omitempty"`
	Status      SubscriptionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	StartDate   *time.Time         `json:"start_date"`
	EndDate     *time.Time         `gorm:"index" json:"end_date"`

	Host Host `gorm:"foreignKey:HostID" json:"-"`
}
