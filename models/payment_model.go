package models

import "github.com/google/uuid"

type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccess    PaymentStatus = "success"
	PaymentFailed     PaymentStatus = "failed"
)

// Payment is one payout attempt of a host's balance.
type Payment struct {
	BaseModel
	HostID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"host_id"`
	Amount        float64       `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string        `gorm:"size:3" json:"currency"`
	Reference     string        `gorm:"size:100;not null;uniqueIndex" json:"reference"`
	TransferCode  string        `gorm:"size:100" json:"transfer_code,omitempty"`
	Status        PaymentStatus `gorm:"size:20;not null;index" json:"status"`
	FailureReason *string       `gorm:"type:text" json:"failure_reason,omitempty"`
}
