package database

import (
	"errors"
	"fmt"
	"log"

	config "github.com/anjiri1684/spacehub/configs"
	"github.com/anjiri1684/spacehub/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB(dsn string) {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

// Models lists every table the application owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.Identity{},
		&models.User{},
		&models.Host{},
		&models.Admin{},
		&models.Category{},
		&models.Location{},
		&models.Space{},
		&models.SpaceImage{},
		&models.Booking{},
		&models.Review{},
		&models.Favorite{},
		&models.Plan{},
		&models.Subscription{},
		&models.Payment{},
		&models.Notification{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedAdmin creates the configured admin and its identity row once.
func SeedAdmin(db *gorm.DB, settings config.Settings) error {
	if settings.AdminEmail == "" || settings.AdminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed.")
		return nil
	}

	var count int64
	if err := db.Model(&models.Admin{}).Where("email = ?", settings.AdminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("check for admin: %w", err)
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(settings.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		admin := models.Admin{
			FullName: settings.AdminFullName,
			Email:    settings.AdminEmail,
			Password: string(hashedPassword),
			IsAdmin:  true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&models.Identity{ID: admin.ID, Kind: models.KindAdmin, Email: admin.Email}).Error
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	log.Println("✅ Admin user seeded successfully")
	return nil
}

var defaultPlans = []models.Plan{
	{Name: "basic", Amount: 5000, Description: "Up to 5 listings", MaxListings: 5, DurationDays: 30, IsActive: true},
	{Name: "premium", Amount: 15000, Description: "Up to 20 listings", MaxListings: 20, DurationDays: 30, IsActive: true},
}

// SeedPlans inserts the default plans that do not exist yet.
func SeedPlans(db *gorm.DB) error {
	for _, p := range defaultPlans {
		var existing models.Plan
		err := db.Where("name = ?", p.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up plan %s: %w", p.Name, err)
		}
		plan := p
		if err := db.Create(&plan).Error; err != nil {
			return fmt.Errorf("seed plan %s: %w", p.Name, err)
		}
		log.Printf("✅ Seeded plan %s", p.Name)
	}
	return nil
}
