package models

type Admin struct {
	BaseModel
	FullName   string `gorm:"size:255;not null" json:"full_name"`
	Email      string `gorm:"size:255;not null;unique" json:"email"`
	Password   string `gorm:"not null" json:"-"`
	IsAdmin    bool   `gorm:"default:true" json:"is_admin"`
	IsLoggedIn bool   `gorm:"default:false" json:"is_logged_in"`
}
