package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func loadEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})
}

func Config(key string) string {
	loadEnv()
	return os.Getenv(key)
}

func ConfigDefault(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func ConfigInt(key string, fallback int) int {
	v := Config(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

type Settings struct {
	Port        string
	AppName     string
	DatabaseURL string
	JWTSecret   string
	TokenTTLH   int

	PaystackSecretKey       string
	PaystackBaseURL         string
	BookingCallbackURL      string
	SubscriptionCallbackURL string
	DefaultCurrency         string

	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string
	FrontendURL     string

	CloudinaryURL    string
	CloudinaryFolder string

	RedisURL string

	AdminEmail    string
	AdminPassword string
	AdminFullName string

	FreeTierMaxListings int

	SubscriptionSweepSpec string
	BookingSweepSpec      string
	ReminderSpec          string
	OutboxSpec            string
}

func Load() Settings {
	return Settings{
		Port:        ConfigDefault("PORT", "8080"),
		AppName:     ConfigDefault("APP_NAME", "SpaceHub"),
		DatabaseURL: Config("DATABASE_URL"),
		JWTSecret:   Config("JWT_SECRET"),
		TokenTTLH:   ConfigInt("JWT_TTL_HOURS", 72),

		PaystackSecretKey:       Config("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:         ConfigDefault("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		BookingCallbackURL:      Config("BOOKING_CALLBACK_URL"),
		SubscriptionCallbackURL: Config("SUBSCRIPTION_CALLBACK_URL"),
		DefaultCurrency:         ConfigDefault("DEFAULT_CURRENCY", "NGN"),

		BrevoAPIKey:     Config("BREVO_API_KEY"),
		EmailSender:     Config("EMAIL_SENDER"),
		EmailSenderName: ConfigDefault("EMAIL_SENDER_NAME", "SpaceHub"),
		FrontendURL:     ConfigDefault("FRONTEND_URL", "http://localhost:3000"),

		CloudinaryURL:    Config("CLOUDINARY_URL"),
		CloudinaryFolder: ConfigDefault("CLOUDINARY_FOLDER", "spacehub_spaces"),

		RedisURL: Config("REDIS_URL"),

		AdminEmail:    Config("ADMIN_EMAIL"),
		AdminPassword: Config("ADMIN_PASSWORD"),
		AdminFullName: ConfigDefault("ADMIN_FULL_NAME", "SpaceHub Admin"),

		FreeTierMaxListings: ConfigInt("FREE_TIER_MAX_LISTINGS", 1),

		SubscriptionSweepSpec: ConfigDefault("CRON_SUBSCRIPTION_SWEEP", "0 * * * *"),
		BookingSweepSpec:      ConfigDefault("CRON_BOOKING_SWEEP", "*/5 * * * *"),
		ReminderSpec:          ConfigDefault("CRON_REMINDERS", "*/5 * * * *"),
		OutboxSpec:            ConfigDefault("CRON_OUTBOX", "@every 1m"),
	}
}
