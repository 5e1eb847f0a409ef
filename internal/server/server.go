// Package server contains the HTTP handlers for the Informatch API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "informatch/docs" // swagger docs
	"informatch/internal/bootstrap"
	"informatch/internal/cache"
	"informatch/internal/config"
	"informatch/internal/database"
	"informatch/internal/featureflags"
	"informatch/internal/middleware"
	"informatch/internal/models"
	"informatch/internal/notifications"
	"informatch/internal/repository"
	"informatch/internal/service"
	"informatch/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	store          storage.ObjectStore
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	verifier       *middleware.TokenVerifier
	notifier       *notifications.Notifier
	featureFlags   *featureflags.Manager

	userRepo         repository.UserRepository
	profileRepo      repository.ProfileRepository
	matchRepo        repository.MatchRepository
	notificationRepo repository.NotificationRepository
	blockRepo        repository.BlockRepository

	userService         *service.UserService
	profileService      *service.ProfileService
	imageService        *service.ImageService
	suggestionService   *service.SuggestionService
	connectionService   *service.ConnectionService
	blockService        *service.BlockService
	notificationService *service.NotificationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedDemoProfiles: cfg.SeedDemoProfiles,
	})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis, rt.Store)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis/storage.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.ObjectStore) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}

	s := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		store:            store,
		promMiddleware:   middleware.InitMetrics("informatch-api"),
		verifier:         middleware.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
		notifier:         notifications.NewNotifier(redisClient),
		featureFlags:     featureflags.NewManager(cfg.FeatureFlags),
		userRepo:         repository.NewUserRepository(db),
		profileRepo:      repository.NewProfileRepository(db),
		matchRepo:        repository.NewMatchRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		blockRepo:        repository.NewBlockRepository(db),
	}

	profileCache := cache.New(redisClient, "profile")
	s.userService = service.NewUserService(s.userRepo, profileCache)
	s.profileService = service.NewProfileService(s.profileRepo, s.blockRepo, profileCache)
	s.imageService = service.NewImageService(s.profileRepo, store, profileCache, cfg)
	s.suggestionService = service.NewSuggestionService(s.profileRepo, s.matchRepo, s.notificationRepo, s.blockRepo)
	s.connectionService = service.NewConnectionService(s.profileRepo, s.matchRepo, s.notificationRepo, s.blockRepo, s.featureFlags)
	s.blockService = service.NewBlockService(s.blockRepo, s.userRepo, s.profileRepo)
	s.notificationService = service.NewNotificationService(s.notificationRepo, s.profileRepo)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded images are served from the API origin in local mode.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if local, ok := s.store.(*storage.LocalStore); ok {
		app.Static(local.PublicPath(), local.Root(), fiber.Static{MaxAge: 3600})
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	protected := api.Group("", s.AuthRequired())

	protected.Get("/suggestions", s.GetSuggestions)
	protected.Get("/feature-flags", s.GetFeatureFlags)

	matches := protected.Group("/matches")
	matches.Get("/", s.GetMatches)
	// Specific /requests routes before generic /:userId
	matches.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 20, 10*time.Minute, "match_request"), s.SendMatchRequest)
	matches.Get("/requests", s.GetIncomingRequests)
	matches.Get("/requests/sent", s.GetSentRequests)
	matches.Post("/requests/:requestId/accept", s.AcceptMatchRequest)
	matches.Post("/requests/:requestId/reject", s.RejectMatchRequest)
	matches.Delete("/requests/:requestId", s.CancelMatchRequest)
	matches.Get("/status/:userId", s.GetRelationshipStatus)
	// Generic /:userId route must be last
	matches.Delete("/:userId", s.Unmatch)

	blocks := protected.Group("/blocks")
	blocks.Get("/", s.GetBlocks)
	blocks.Post("/:userId", middleware.RateLimit(
		s.redis, 30, 10*time.Minute, "block"), s.BlockUser)
	blocks.Delete("/:userId", s.UnblockUser)

	profile := protected.Group("/profile")
	profile.Get("/", s.GetMyProfile)
	profile.Put("/", s.SaveMyProfile)
	profile.Post("/images", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "image_upload"), s.UploadProfileImage)
	profile.Delete("/images/:slot", s.DeleteProfileImage)
	protected.Get("/profiles/:userId", s.GetUserProfile)

	users := protected.Group("/users")
	users.Get("/me", s.GetMe)
	users.Patch("/me/privacy", s.UpdatePrivacy)

	notifs := protected.Group("/notifications")
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread-count", s.GetUnreadCount)
	notifs.Post("/read-all", s.MarkAllNotificationsRead)
	notifs.Post("/:id/read", s.MarkNotificationRead)
	notifs.Delete("/:id", s.DeleteNotification)
}

// AuthRequired returns the bearer token middleware bound to this server's
// verifier and revocation store.
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.RequireAuth(s.verifier, s.redis)
}

// LivenessCheck handles liveness check requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness check requests. Redis is optional: a
// server started without it reports "disabled" and stays ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Informatch API",
		// Multipart overhead on top of the largest accepted image.
		BodyLimit: int(s.imageService.MaxUploadSizeBytes()) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.Error("unhandled request error",
				slog.String("path", c.Path()), slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
