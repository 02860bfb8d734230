package models

type Location struct {
	BaseModel
	Name    string `gorm:"size:100;not null;unique" json:"name"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	Country string `gorm:"size:100" json:"country"`
}
