package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/config"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/db"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/handlers"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/logging"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/mailer"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/metrics"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/realtime"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/booking"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/catalog"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/dispute"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/identity"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/review"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/wallet"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/storage"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/store"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	// Redis wajib: deny-list logout, kode reset password dan fan-in notifikasi.
	rdb, err := realtime.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, log)
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}
	defer rdb.Close()

	hub := realtime.NewHub(log)
	go hub.Run(ctx)
	notifier := realtime.NewNotifier(rdb, hub, log)
	go notifier.Subscribe(ctx)

	uploader, err := newUploader(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("uploader")
	}

	// stores
	users := store.NewUserStore(gdb)
	services := store.NewServiceStore(gdb)
	bookings := store.NewBookingStore(gdb)
	reviews := store.NewReviewStore(gdb)
	walletSvc := wallet.NewWalletService(gdb)
	disputes := store.NewDisputeStore(gdb, walletSvc)

	// services
	tokens := utils.NewTokenIssuer(cfg.JWTSecret,
		time.Duration(cfg.JWTAccessExpiresMin)*time.Minute,
		time.Duration(cfg.JWTRefreshExpiresMin)*time.Minute)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass, log)
	identitySvc := identity.NewService(users, tokens,
		store.NewRedisTokenStore(rdb), store.NewRedisResetCodes(rdb),
		mail, time.Duration(cfg.ResetCodeTTLMin)*time.Minute, log)
	catalogSvc := catalog.NewService(services, log)
	bookingSvc := booking.NewService(bookings, services, reviews, notifier, log)
	reviewSvc := review.NewService(reviews, bookings, log)
	disputeSvc := dispute.NewService(disputes, bookings, users, notifier, log)

	if created, err := identitySvc.EnsureOperator(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		log.Fatal().Err(err).Msg("provision operator")
	} else if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("operator account created")
	}

	reminders, err := booking.NewReminder(bookings, mail, notifier, log).Start(ctx, cfg.ReminderCron)
	if err != nil {
		log.Fatal().Err(err).Msg("booking reminders")
	}
	defer reminders.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    storage.MaxUploadBytes + 1024*1024,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true, // cookie jm_token
	}))
	app.Use(metrics.Middleware())
	app.Use(logging.RequestLogger(log))

	app.Static("/uploads", cfg.UploadDir)
	app.Get("/metrics", metrics.Handler())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "ok"})
	})

	secureCookie := strings.HasPrefix(cfg.AppBaseURL, "https://")
	authH := handlers.NewAuthHandler(identitySvc, secureCookie)
	onboardingH := handlers.NewProviderOnboardingHandler(identitySvc, uploader)
	categoryH := handlers.NewCategoryHandler(catalogSvc)
	serviceH := handlers.NewServiceHandler(catalogSvc, uploader)
	bookingH := handlers.NewBookingHandler(bookingSvc)
	dashboardH := handlers.NewDashboardHandler(bookingSvc)
	reviewH := handlers.NewReviewHandler(reviewSvc)
	disputeH := handlers.NewDisputeHandler(disputeSvc)
	adminH := handlers.NewAdminHandler(identitySvc, catalogSvc)
	walletH := handlers.NewWalletHandler(walletSvc)
	notifH := handlers.NewNotificationHandler(hub, log)

	auth := middleware.JWT(identitySvc)
	optionalAuth := middleware.OptionalJWT(identitySvc)
	providerOnly := middleware.RequireRoles(models.RoleProvider)
	providerOrAdmin := middleware.RequireRoles(models.RoleProvider, models.RoleAdmin)
	customerOrAdmin := middleware.RequireRoles(models.RoleCustomer, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := app.Group("/api")

	// auth
	api.Post("/auth/signup", authH.Register)
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/signin", authH.Login)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/refresh", authH.Refresh)
	api.Post("/auth/logout", authH.Logout)
	api.Post("/auth/forgot-password", authH.ForgotPassword)
	api.Post("/auth/reset-password", authH.ResetPassword)
	api.Get("/auth/me", auth, authH.Me)
	api.Put("/auth/profile", auth, authH.UpdateProfile)
	api.Post("/auth/verification-document", auth, providerOnly, onboardingH.UploadDocument)

	if cfg.GoogleEnabled() {
		googleH := handlers.NewGoogleOAuthHandler(identitySvc, authH,
			cfg.GoogleClientID, cfg.GoogleSecret, cfg.GoogleRedirect, cfg.FrontendBaseURL, log)
		api.Get("/auth/google/start", googleH.GoogleStart)
		api.Get("/auth/google/callback", googleH.GoogleCallback)
	} else {
		log.Info().Msg("google sign-in disabled")
	}

	onboardingH.Routes(api, auth, providerOnly)

	// catalog; static segments before /:id
	api.Get("/services", serviceH.List)
	api.Get("/services/categories", categoryH.GetCategories)
	api.Get("/services/categories/:category/subcategories", categoryH.GetSubcategories)
	api.Get("/services/map", serviceH.Map)
	api.Get("/services/map/bounds", serviceH.MapBounds)
	api.Get("/services/map/nearby", serviceH.Nearby)
	api.Get("/services/my-services", auth, providerOrAdmin, serviceH.MyServices)
	api.Post("/services/images", auth, providerOrAdmin, serviceH.UploadImage)
	api.Post("/services", auth, providerOrAdmin, serviceH.Create)
	api.Get("/services/:id", serviceH.Get)
	api.Put("/services/:id", auth, providerOrAdmin, serviceH.Update)
	api.Patch("/services/:id/status", auth, providerOrAdmin, serviceH.SetStatus)
	api.Patch("/services/:id/location", auth, providerOrAdmin, serviceH.UpdateLocation)
	api.Delete("/services/:id", auth, providerOrAdmin, serviceH.Delete)
	api.Get("/categories", categoryH.GetCategories)

	// bookings
	api.Post("/bookings", auth, customerOrAdmin, bookingH.Create)
	api.Get("/bookings/my-bookings", auth, bookingH.MyBookings)
	api.Get("/bookings/:id", auth, bookingH.Get)
	api.Put("/bookings/:id/status", auth, providerOrAdmin, bookingH.UpdateStatus)
	api.Delete("/bookings/:id", auth, customerOrAdmin, bookingH.Cancel)
	api.Get("/dashboard/stats", auth, dashboardH.Stats)

	// reviews
	api.Post("/reviews", auth, customerOrAdmin, reviewH.Create)
	api.Get("/reviews/my-reviews", auth, reviewH.Mine)
	api.Get("/reviews/booking/:bookingId", auth, reviewH.ForBooking)
	api.Get("/reviews/provider/:providerId", reviewH.ByProvider)
	api.Get("/reviews/provider/:providerId/stats", reviewH.ProviderStats)
	api.Get("/reviews/service/:serviceId", reviewH.ByService)
	api.Put("/reviews/:id", auth, customerOrAdmin, reviewH.Update)
	api.Delete("/reviews/:id", auth, customerOrAdmin, reviewH.Delete)

	// admin
	admin := api.Group("/admin", auth, adminOnly)
	admin.Get("/providers/pending", adminH.PendingProviders)
	admin.Put("/providers/:id/verify", adminH.VerifyProvider)
	admin.Put("/providers/:id/reject", adminH.RejectProvider)
	admin.Get("/users", adminH.ListUsers)
	admin.Delete("/users/:id", adminH.DeleteUser)
	admin.Get("/services", adminH.ListServices)
	admin.Delete("/services/:id", adminH.DeleteService)
	disputeH.Routes(api, optionalAuth, admin)

	// wallet
	api.Get("/wallet/transactions", auth, walletH.Transactions)

	// realtime
	app.Get("/ws/notifications", auth, notifH.Upgrade, notifH.Socket())

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.AppPort).Msg("listening")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}

func newUploader(cfg config.Config) (storage.Uploader, error) {
	if cfg.UploadDriver == "cloudinary" {
		return storage.NewCloudinaryUploader(cfg.CloudinaryCloud, cfg.CloudinaryKey,
			cfg.CloudinarySecret, cfg.CloudinaryFolder, cfg.CloudinaryPreset)
	}
	return &storage.LocalUploader{Dir: cfg.UploadDir, BaseURL: cfg.AppBaseURL}, nil
}

// compile-time checks for the wiring above
var (
	_ middleware.PrincipalResolver = (*identity.Service)(nil)
	_ store.RefundLedger           = (*wallet.WalletService)(nil)
)
