package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/spacehub/configs"
	"github.com/anjiri1684/spacehub/database"
	"github.com/anjiri1684/spacehub/handlers"
	"github.com/anjiri1684/spacehub/jobs"
	"github.com/anjiri1684/spacehub/middleware"
	"github.com/anjiri1684/spacehub/notifications"
	"github.com/anjiri1684/spacehub/payments"
	"github.com/anjiri1684/spacehub/routes"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	settings := config.Load()
	if settings.JWTSecret == "" {
		log.Fatal("🔥 JWT_SECRET is not set")
	}

	database.ConnectDB(settings.DatabaseURL)
	database.Migrate()
	if err := database.SeedAdmin(database.DB, settings); err != nil {
		log.Fatalf("🔥 %v", err)
	}
	if err := database.SeedPlans(database.DB); err != nil {
		log.Fatalf("🔥 %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run()

	mailer := notifications.NewMailer(settings.BrevoAPIKey, settings.EmailSender, settings.EmailSenderName)
	dispatcher := notifications.NewDispatcher(database.DB, mailer, hub)
	go dispatcher.Run(ctx)

	gateway := payments.NewPaystack(settings.PaystackSecretKey, settings.PaystackBaseURL)

	var media services.MediaStore
	if store, err := services.NewCloudinaryStore(settings.CloudinaryURL, settings.CloudinaryFolder); err != nil {
		log.Printf("⚠️ Image uploads disabled: %v", err)
	} else {
		media = store
	}

	authSvc := services.NewAuthService(database.DB, tokenStore(ctx, settings.RedisURL), dispatcher, services.AuthConfig{
		JWTSecret:   settings.JWTSecret,
		TokenTTL:    time.Duration(settings.TokenTTLH) * time.Hour,
		FrontendURL: settings.FrontendURL,
	})
	spaceSvc := services.NewSpaceService(database.DB, media, dispatcher, settings.FreeTierMaxListings)
	bookingSvc := services.NewBookingService(database.DB, gateway, dispatcher, services.BookingConfig{
		CallbackURL:     settings.BookingCallbackURL,
		DefaultCurrency: settings.DefaultCurrency,
	})
	subscriptionSvc := services.NewSubscriptionService(database.DB, gateway, dispatcher, services.SubscriptionConfig{
		CallbackURL:     settings.SubscriptionCallbackURL,
		DefaultCurrency: settings.DefaultCurrency,
	})
	payoutSvc := services.NewPayoutService(database.DB, gateway, dispatcher)
	webhookSvc := services.NewWebhookService(database.DB, bookingSvc, subscriptionSvc, payoutSvc)
	profileSvc := services.NewProfileService(database.DB)
	reviewSvc := services.NewReviewService(database.DB)

	c := cron.New()
	err := jobs.Register(c,
		jobs.Entry{Name: "subscription-sweep", Spec: settings.SubscriptionSweepSpec, Run: jobs.ExpireSubscriptions(subscriptionSvc)},
		jobs.Entry{Name: "booking-sweep", Spec: settings.BookingSweepSpec, Run: jobs.SweepBookingStatuses(bookingSvc)},
		jobs.Entry{Name: "booking-reminders", Spec: settings.ReminderSpec, Run: jobs.SendBookingReminders(bookingSvc)},
		jobs.Entry{Name: "outbox", Spec: settings.OutboxSpec, Run: jobs.DispatchNotifications(dispatcher)},
	)
	if err != nil {
		log.Fatalf("🔥 %v", err)
	}
	c.Start()
	defer c.Stop()

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       settings.AppName,
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   60 * time.Second,
		BodyLimit:     20 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Africa/Lagos",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the SpaceHub API"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.Setup(app, middleware.NewAuth(authSvc, settings.JWTSecret), routes.Handlers{
		Auth:          handlers.NewAuthHandler(authSvc),
		Profiles:      handlers.NewProfileHandler(profileSvc),
		Spaces:        handlers.NewSpaceHandler(spaceSvc),
		Bookings:      handlers.NewBookingHandler(bookingSvc, services.NewReceiptService(database.DB, nil)),
		Subscriptions: handlers.NewSubscriptionHandler(subscriptionSvc),
		Payments:      handlers.NewPaymentHandler(payoutSvc, webhookSvc, settings.PaystackSecretKey),
		Catalog:       handlers.NewCatalogHandler(services.NewCatalogService(database.DB)),
		Reviews:       handlers.NewReviewHandler(reviewSvc),
		Favorites:     handlers.NewFavoriteHandler(services.NewFavoriteService(database.DB)),
		Admin:         handlers.NewAdminHandler(profileSvc, reviewSvc),
		Notifications: handlers.NewNotificationHandler(hub),
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("🔥 Shutdown error: %v", err)
		}
	}()

	log.Printf("✅ Server is running on port %s", settings.Port)
	if err := app.Listen(":" + settings.Port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

// tokenStore uses Redis when REDIS_URL is set and falls back to process
// memory otherwise.
func tokenStore(ctx context.Context, redisURL string) services.TokenStore {
	if redisURL == "" {
		log.Println("⚠️ REDIS_URL not set, keeping tokens in memory")
		return services.NewMemoryTokenStore()
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("🔥 Invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("🔥 Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Redis connected successfully")
	return services.NewRedisTokenStore(client)
}
