package routes

import (
	"time"

	"smpc-coopfund/internal/adapters/http/handlers"
	"smpc-coopfund/internal/adapters/http/middleware"
	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/adapters/persistence/repositories"
	"smpc-coopfund/internal/adapters/storage"
	"smpc-coopfund/internal/config"
	"smpc-coopfund/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// cacheMaxAge caps how stale the funds-history chart may be
const cacheMaxAge = 5 * time.Minute

// Setup configures all routes for the application
func Setup(app *fiber.App, store docstore.Store, cfg *config.Config) *services.ReminderService {
	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(store)
	ledgerRepo := repositories.NewLedgerRepository(store)
	applicationRepo := repositories.NewApplicationRepository(store)
	loanRepo := repositories.NewLoanRepository(store)

	// Blob storage for proof-of-payment uploads
	blobStore := storage.NewLocalBlobStore(cfg.Blob.Dir, cfg.Blob.BaseURL)

	// Initialize services
	notifyService := services.NewNotificationService(cfg.Notify)
	lifecycleService := services.NewLifecycleService(
		applicationRepo,
		ledgerRepo,
		memberRepo,
		loanRepo,
		blobStore,
		cfg.Loan.MonthlyInterestRate,
	)
	listingService := services.NewListingService(applicationRepo)
	dashboardService := services.NewDashboardService(applicationRepo, ledgerRepo, memberRepo, loanRepo)
	reminderService := services.NewReminderService(loanRepo, memberRepo, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	applicationHandler := handlers.NewApplicationHandler(lifecycleService, listingService, notifyService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerRepo, memberRepo, loanRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, reminderService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, applicationHandler, ledgerHandler, dashboardHandler, cfg)

	return reminderService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	applicationHandler *handlers.ApplicationHandler,
	ledgerHandler *handlers.LedgerHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Application routes. Submission comes from the member-facing data
	// layer; resolution and listing are staff actions.
	appRoutes := router.Group("/applications/:domain")
	appRoutes.Post("/", applicationHandler.Submit)

	appRoutes.Use(middleware.AuthMiddleware(cfg))
	appRoutes.Get("/", applicationHandler.List)
	appRoutes.Post("/:memberId/:txnId/approve",
		middleware.ResolutionRateLimiter(),
		middleware.RoleMiddleware("OFFICER", "ADMIN"),
		applicationHandler.Approve)
	appRoutes.Post("/:memberId/:txnId/reject",
		middleware.ResolutionRateLimiter(),
		middleware.RoleMiddleware("OFFICER", "ADMIN"),
		applicationHandler.Reject)

	// Rejection reason choices
	router.Get("/reject-reasons", applicationHandler.RejectReasons)

	// Member routes (staff)
	memberRoutes := router.Group("/members")
	memberRoutes.Use(middleware.AuthMiddleware(cfg))
	memberRoutes.Get("/", ledgerHandler.SearchMembers)
	memberRoutes.Get("/:memberId/balance",
		middleware.PrivateCacheHeaders(30*time.Second), ledgerHandler.GetBalance)
	memberRoutes.Get("/:memberId/loans", ledgerHandler.GetMemberLoans)
	memberRoutes.Get("/:memberId/transactions", applicationHandler.Feed)

	// Funds routes (staff)
	fundsRoutes := router.Group("/funds")
	fundsRoutes.Use(middleware.AuthMiddleware(cfg))
	fundsRoutes.Get("/", ledgerHandler.GetFundsPool)
	fundsRoutes.Get("/history", middleware.CacheControl(cacheMaxAge), ledgerHandler.GetFundsHistory)

	// Dashboard routes (staff)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/", dashboardHandler.GetDashboard)
	dashboardRoutes.Post("/overdue-scan",
		middleware.RoleMiddleware("ADMIN"),
		dashboardHandler.RunOverdueScan)
}
