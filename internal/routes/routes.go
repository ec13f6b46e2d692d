// Package routes wires repositories, services and handlers into the fiber
// application and declares every API route.
package routes

import (
	"time"

	"fidelite/internal/config"
	"fidelite/internal/handlers"
	"fidelite/internal/metrics"
	"fidelite/internal/middleware"
	"fidelite/internal/models"
	"fidelite/internal/repositories"
	"fidelite/internal/services/analytics"
	"fidelite/internal/services/auth"
	"fidelite/internal/services/customer"
	"fidelite/internal/services/ledger"
	"fidelite/internal/services/merchant"
	"fidelite/internal/services/offer"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Cache is the read cache the services share, plus its health check.
type Cache interface {
	repositories.CacheRepository
	handlers.Pinger
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, cfg *config.Config, db *gorm.DB, cache Cache, m *metrics.Metrics) {
	// Repositories
	accountRepo := repositories.NewAccountRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	merchantRepo := repositories.NewMerchantRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)

	// Services
	authService := auth.NewService(accountRepo, auth.Config{
		Secret:   cfg.JWT.Secret,
		TokenTTL: cfg.JWT.AccessTTL,
	})
	ledgerService := ledger.NewService(ledgerRepo, cache, ledger.Config{}, m)
	analyticsService := analytics.NewService(customerRepo)
	merchantService := merchant.NewService(merchantRepo, offerRepo, ratingRepo, cache, m)
	offerService := offer.NewService(offerRepo, cache, nil)
	customerService := customer.NewService(customerRepo, merchantRepo, offerRepo, ratingRepo, cache, customer.Config{})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	merchantHandler := handlers.NewMerchantHandler(merchantService, analyticsService)
	offerHandler := handlers.NewOfferHandler(offerService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	healthHandler := handlers.NewHealthHandler(db, cache)

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", m.Handler())

	api := app.Group("/api")

	// Public endpoints
	authLimiter := limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "too many attempts, try again later")
		},
	})
	api.Post("/auth/register", authLimiter, authHandler.Register)
	api.Post("/auth/login", authLimiter, authHandler.Login)

	api.Get("/merchants", merchantHandler.ListMerchants)
	api.Get("/merchants/:id", merchantHandler.GetStorefront)
	api.Get("/merchants/:id/offers", offerHandler.ListForMerchant)
	api.Get("/offers", offerHandler.ListActive)

	// Protected routes
	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.JWT.Secret)
	protected := api.Group("", authMiddleware.Handler)

	protected.Post("/auth/logout", authHandler.Logout)

	setupMerchantRoutes(protected, merchantHandler, offerHandler, ledgerHandler)
	setupCustomerRoutes(protected, customerHandler, ledgerHandler)
	setupAdminRoutes(protected, merchantHandler, ledgerHandler)
}

func setupMerchantRoutes(router fiber.Router, merchantHandler *handlers.MerchantHandler, offerHandler *handlers.OfferHandler, ledgerHandler *handlers.LedgerHandler) {
	merchant := router.Group("/merchant", middleware.RequireRole(models.RoleMerchant))

	merchant.Get("/profile", middleware.HasPermission(models.PermissionMerchantRead), merchantHandler.GetProfile)
	merchant.Put("/profile", middleware.HasPermission(models.PermissionMerchantWrite), merchantHandler.UpdateProfile)

	merchant.Get("/offers", middleware.HasPermission(models.PermissionOffersRead), offerHandler.ListOwn)
	merchant.Post("/offers", middleware.HasPermission(models.PermissionOffersWrite), offerHandler.Create)
	merchant.Put("/offers/:id", middleware.HasPermission(models.PermissionOffersWrite), offerHandler.Update)
	merchant.Delete("/offers/:id", middleware.HasPermission(models.PermissionOffersWrite), offerHandler.Delete)

	ledger := merchant.Group("/ledger")
	ledger.Post("/preview", middleware.HasPermission(models.PermissionLedgerWrite), ledgerHandler.Preview)
	ledger.Post("/award", middleware.HasPermission(models.PermissionLedgerWrite), ledgerHandler.Award)
	ledger.Post("/redeem-offer", middleware.HasPermission(models.PermissionLedgerWrite), ledgerHandler.RedeemOffer)
	ledger.Get("/transactions", middleware.HasPermission(models.PermissionLedgerRead), ledgerHandler.MerchantTransactions)
	ledger.Get("/summary", middleware.HasPermission(models.PermissionLedgerRead), ledgerHandler.MerchantSummary)

	merchant.Get("/analytics/customers", middleware.HasPermission(models.PermissionAnalyticsRead), merchantHandler.CustomerAnalytics)
}

func setupCustomerRoutes(router fiber.Router, customerHandler *handlers.CustomerHandler, ledgerHandler *handlers.LedgerHandler) {
	customer := router.Group("/customer", middleware.RequireRole(models.RoleCustomer))

	customer.Get("/profile", middleware.HasPermission(models.PermissionProfileRead), customerHandler.GetProfile)
	customer.Put("/profile", middleware.HasPermission(models.PermissionProfileWrite), customerHandler.UpdateProfile)
	customer.Post("/lookup-code", middleware.HasPermission(models.PermissionProfileWrite), customerHandler.RotateLookupCode)
	customer.Delete("/account", middleware.HasPermission(models.PermissionProfileWrite), customerHandler.DeleteAccount)

	customer.Get("/transactions", middleware.HasPermission(models.PermissionLedgerRead), ledgerHandler.CustomerTransactions)
	customer.Get("/summary", middleware.HasPermission(models.PermissionLedgerRead), ledgerHandler.CustomerSummary)

	customer.Post("/offers/:id", middleware.HasPermission(models.PermissionProfileWrite), customerHandler.AddOffer)
	customer.Delete("/offers/:id", middleware.HasPermission(models.PermissionProfileWrite), customerHandler.RemoveOffer)

	customer.Put("/ratings/:merchantId", middleware.HasPermission(models.PermissionRatingsWrite), customerHandler.Rate)
}

func setupAdminRoutes(router fiber.Router, merchantHandler *handlers.MerchantHandler, ledgerHandler *handlers.LedgerHandler) {
	admin := router.Group("/admin", middleware.RequireRole(models.RoleAdmin))

	admin.Get("/merchants/:id", middleware.HasPermission(models.PermissionMerchantRead), merchantHandler.AdminGetMerchant)
	admin.Get("/ledger/transactions", middleware.HasPermission(models.PermissionLedgerRead), ledgerHandler.AdminTransactions)
	admin.Get("/ledger/summary", middleware.HasPermission(models.PermissionLedgerRead), ledgerHandler.AdminSummary)
	admin.Get("/analytics/customers", middleware.HasPermission(models.PermissionAnalyticsRead), merchantHandler.AdminCustomerAnalytics)
}
