package routes

import (
	"time"

	"volunteer-connect/internal/adapters/http/handlers"
	"volunteer-connect/internal/adapters/http/middleware"
	"volunteer-connect/internal/adapters/persistence/repositories"
	"volunteer-connect/internal/config"
	"volunteer-connect/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// missionCacheAge is how long clients may cache public mission reads
const missionCacheAge = 30 * time.Second

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	tx := repositories.NewTransactor(db)
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	missionRepo := repositories.NewMissionRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)

	// Initialize services
	authService := services.NewAuthService(tx, userRepo, refreshTokenRepo, cfg)
	profileService := services.NewProfileService(tx, userRepo, profileRepo)
	missionService := services.NewMissionService(tx, missionRepo, applicationRepo)
	applicationService := services.NewApplicationService(tx, applicationRepo, missionRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	profileHandler := handlers.NewProfileHandler(profileService)
	missionHandler := handlers.NewMissionHandler(missionService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	adminHandler := handlers.NewAdminHandler(authService, profileService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(cfg)

	setupAuthRoutes(apiV1.Group("/auth", middleware.NoCacheHeaders()), authHandler, auth, cfg)
	setupMissionRoutes(apiV1.Group("/missions"), missionHandler, auth)
	setupApplicationRoutes(apiV1.Group("/applications", auth), applicationHandler)
	setupProfileRoutes(apiV1.Group("/profile", auth), profileHandler)

	apiV1.Get("/ngos/:id", middleware.PublicCache(missionCacheAge), profileHandler.GetNGO)

	setupAdminRoutes(apiV1.Group("/admin", auth, middleware.AdminOnly()), adminHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler, cfg *config.Config) {
	limit := middleware.AuthRateLimiter(cfg.RateLimit.Auth)

	// Public routes
	router.Post("/register", limit, handler.Register)
	router.Post("/login", limit, handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", auth, handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupMissionRoutes configures mission routes. Reads are public, writes
// belong to the owning NGO.
func setupMissionRoutes(router fiber.Router, handler *handlers.MissionHandler, auth fiber.Handler) {
	ngo := middleware.NGOOnly()

	router.Get("/", middleware.PublicCache(missionCacheAge), handler.ListMissions)
	router.Get("/my", auth, ngo, handler.ListMyMissions)
	router.Get("/:id", middleware.PublicCache(missionCacheAge), handler.GetMission)

	router.Post("/", auth, ngo, handler.CreateMission)
	router.Put("/:id", auth, ngo, handler.UpdateMission)
	router.Put("/:id/archive", auth, ngo, handler.ArchiveMission)
	router.Delete("/:id", auth, ngo, handler.DeleteMission)
}

// setupApplicationRoutes configures application routes (Authenticated)
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	volunteer := middleware.VolunteerOnly()
	ngo := middleware.NGOOnly()

	router.Post("/", volunteer, handler.SubmitApplication)
	router.Get("/my", volunteer, handler.ListMyApplications)
	router.Get("/mission/:missionId", ngo, handler.ListMissionApplications)
	router.Get("/:id", handler.GetApplication)
	router.Put("/:id/status", ngo, handler.DecideApplication)
	router.Put("/:id/withdraw", volunteer, handler.WithdrawApplication)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.ProfileHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/volunteer", middleware.VolunteerOnly(), handler.UpdateVolunteerProfile)
	router.Put("/ngo", middleware.NGOOnly(), handler.UpdateNGOProfile)
}

// setupAdminRoutes configures admin routes (Admin only)
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	router.Put("/ngos/:userId/verify", handler.VerifyNGO)
	router.Put("/users/:id/deactivate", handler.DeactivateUser)
}
