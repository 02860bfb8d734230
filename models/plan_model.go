package models

type Plan struct {
	BaseModel
	Name         string  `gorm:"size:100;not null;unique" json:"name"`
	Amount       float64 `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description  string  `gorm:"type:text" json:"description"`
	MaxListings  int     `gorm:"not null;default:1" json:"max_listings"`
	DurationDays int     `gorm:"not null;default:30" json:"duration_days"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`
}
