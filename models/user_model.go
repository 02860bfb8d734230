package models

type User struct {
	BaseModel
	FullName          string  `gorm:"size:255;not null" json:"full_name"`
	Email             string  `gorm:"size:255;not null;unique" json:"email"`
	Phone             string  `gorm:"size:30" json:"phone"`
	Password          string  `gorm:"not null" json:"-"`
	IsVerified        bool    `gorm:"default:false" json:"is_verified"`
	IsLoggedIn        bool    `gorm:"default:false" json:"is_logged_in"`
	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url"`
}
