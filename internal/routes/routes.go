package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/auth"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/booking"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/config"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/identity"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/listing"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/metrics"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/middleware"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/notification"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/schedule"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/storage"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wallet"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wishlist"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/withdrawal"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Cache == nil {
		return fmt.Errorf("redis is required for the withdrawal OTP flow")
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	// Repositories: Postgres in real deployments, memory in dev without a DB.
	var (
		walletRepo   wallet.Repository
		identityRepo identity.Repository
		withdrawRepo withdrawal.Repository
		providerCat  withdrawal.ProviderCatalog
		listingRepo  listing.Repository
		bookingRepo  booking.Repository
		scheduleRepo schedule.Repository
		wishlistRepo wishlist.Repository
	)
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
		withdrawRepo = withdrawal.NewPostgresRepository(d.DB)
		providerCat = withdrawal.NewPostgresProviderCatalog(d.DB)
		listingRepo = listing.NewPostgresRepository(d.DB)
		bookingRepo = booking.NewPostgresRepository(d.DB)
		scheduleRepo = schedule.NewPostgresRepository(d.DB)
		wishlistRepo = wishlist.NewPostgresRepository(d.DB)
	} else {
		walletRepo = wallet.NewMemoryRepository()
		identityRepo = identity.NewMemoryRepository()
		withdrawRepo = withdrawal.NewMemoryRepository()
		providerCat = withdrawal.NewMemoryProviderCatalog()
		listingRepo = listing.NewMemoryRepository()
		bookingRepo = booking.NewMemoryRepository()
		scheduleRepo = schedule.NewMemoryRepository()
		wishlistRepo = wishlist.NewMemoryRepository()
	}

	var uploader storage.Uploader
	if d.Cfg.MediaBaseURL != "" {
		uploader = storage.NewHTTPUploader(d.Cfg.MediaBaseURL)
	} else {
		uploader = storage.NewMemoryUploader()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)

	walletSvc := wallet.NewService(walletRepo)
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)
	withdrawSvc := withdrawal.NewService(walletSvc, withdrawRepo, providerCat,
		withdrawal.NewRedisOTPStore(d.Cache), identityRepo, notifier, withdrawal.Options{
			OTPTTL:      d.Cfg.OTPTTL,
			MaxAttempts: d.Cfg.OTPMaxAttempts,
			Metrics:     d.Metrics,
		})
	listingSvc := listing.NewService(listingRepo, uploader)
	bookingSvc := booking.NewService(bookingRepo, listingRepo, walletSvc, notifier, d.Metrics)
	scheduleSvc := schedule.NewService(scheduleRepo, listingRepo)
	wishlistSvc := wishlist.NewService(wishlistRepo, listingRepo)

	authHandler := auth.NewHandler(identitySvc, authSvc, walletSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	withdrawHandler := withdrawal.NewHandler(withdrawSvc)
	listingHandler := listing.NewHandler(listingSvc)
	bookingHandler := booking.NewHandler(bookingSvc)
	scheduleHandler := schedule.NewHandler(scheduleSvc)
	wishlistHandler := wishlist.NewHandler(wishlistSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterAuthRoutes(api, authHandler, d)

	jwtmw := middleware.JWTAuth(authSvc, identityRepo)
	protected := api.Group("", jwtmw)
	protected.Post("/auth/logout", authHandler.Logout)

	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		user, err := identityRepo.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"userId":    user.ID,
			"email":     user.Email,
			"phone":     user.Phone,
			"name":      user.Name,
			"role":      user.Role,
			"country":   user.Country,
			"createdAt": user.CreatedAt,
			"lastLogin": user.LastLogin,
		})
	})

	// Replayed unsafe requests (double-submitted withdrawals and bookings)
	// return the stored first response instead of running twice.
	idem := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)

	RegisterWalletRoutes(protected, walletHandler)
	RegisterWithdrawalRoutes(protected, withdrawHandler, d, idem)
	RegisterListingRoutes(protected, listingHandler, scheduleHandler)
	RegisterBookingRoutes(protected, bookingHandler, idem)
	RegisterWishlistRoutes(protected, wishlistHandler)

	return nil
}
