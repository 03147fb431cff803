// Package server contains the HTTP handlers and routing for the marketplace API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"diplomat/internal/cache"
	"diplomat/internal/config"
	"diplomat/internal/database"
	"diplomat/internal/middleware"
	"diplomat/internal/models"
	"diplomat/internal/notifications"
	"diplomat/internal/repository"
	"diplomat/internal/service"
	"diplomat/internal/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	jwtIssuer   = "diplomat-api"
	jwtAudience = "diplomat-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config           *config.Config
	db               *gorm.DB
	redis            *redis.Client
	userRepo         repository.UserRepository
	listingRepo      repository.ListingRepository
	reviewRepo       repository.ReviewRepository
	reportRepo       repository.ReportRepository
	notificationRepo repository.NotificationRepository
	listingSvc       *service.ListingService
	reviewSvc        *service.ReviewService
	reportSvc        *service.ReportService
	notificationSvc  *service.NotificationService
	userSvc          *service.UserService
	uploader         *uploads.Client
}

// NewServer creates a server instance, connecting to the database and Redis.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps wires a server from pre-built dependencies. Tests use it
// with an in-memory database and a fake Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var notifier *notifications.Notifier
	if redisClient != nil {
		notifier = notifications.NewNotifier(redisClient)
	}
	outbox := notifications.NewOutbox(notificationRepo, notifier)

	return &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		userRepo:         userRepo,
		listingRepo:      listingRepo,
		reviewRepo:       reviewRepo,
		reportRepo:       reportRepo,
		notificationRepo: notificationRepo,
		listingSvc:       service.NewListingService(listingRepo, userRepo.IsAdmin),
		reviewSvc:        service.NewReviewService(reviewRepo, listingRepo, outbox),
		reportSvc:        service.NewReportService(reportRepo, reviewRepo, listingRepo, userRepo, outbox),
		notificationSvc:  service.NewNotificationService(notificationRepo, userRepo, notifications.NewPushClient()),
		userSvc:          service.NewUserService(userRepo, outbox),
		uploader:         uploads.NewClient(cfg.FileManagerURL, cfg.FileManagerToken),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Prometheus HTTP metrics
	prom := middleware.InitMetrics("diplomat-api")
	prom.RegisterAt(app, "/metrics")
	app.Use(middleware.MetricsMiddleware(prom))

	// Structured Logging middleware
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	api.Get("/monitor", monitor.New(monitor.Config{
		Title: "Diplomat Corner API Metrics",
	}))

	// Account provisioning is called by the identity frontend on first login;
	// it carries no session yet, so it is rate limited instead of token gated.
	api.Post("/users", middleware.RateLimit(s.redis, 5, 10*time.Minute, "provision"), s.ProvisionUser)

	// Public listing browsing
	publicListings := api.Group("/listings")
	publicListings.Get("/", s.GetListings)
	publicListings.Get("/:id/reviews", s.GetReviews)
	publicListings.Get("/:id", s.GetListing)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Get("/:id", s.GetUserProfile)

	listings := protected.Group("/listings")
	listings.Post("/", middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_listing"), s.CreateListing)
	listings.Post("/:id/reviews", middleware.RateLimit(s.redis, 5, time.Minute, "create_review"), s.CreateReview)
	listings.Put("/:id", s.UpdateListing)
	listings.Delete("/:id", s.DeleteListing)

	reviews := protected.Group("/reviews")
	reviews.Post("/:id/like", s.LikeReview)
	reviews.Delete("/:id", s.DeleteReview)

	reports := protected.Group("/reports")
	reports.Post("/", middleware.RateLimit(s.redis, 10, 10*time.Minute, "create_report"), s.CreateReport)
	reports.Get("/", s.AdminRequired(), s.GetReports)
	reports.Get("/:id", s.AdminRequired(), s.GetReport)
	reports.Put("/:id", s.AdminRequired(), s.ResolveReport)

	notifs := protected.Group("/notifications")
	notifs.Get("/check-new", s.CheckNewNotifications)
	notifs.Post("/subscribe", s.SubscribePush)
	notifs.Get("/", s.GetNotifications)
	notifs.Put("/", s.MarkNotificationsRead)
	notifs.Delete("/:id", s.DeleteNotification)
	notifs.Delete("/", s.DeleteNotificationByQuery)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Diplomat Corner",
		"version": "1.0.0",
		"status":  "healthy",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != jwtIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != jwtAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))

		// Re-sync the user ID into the request context for the logger.
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired gates a route on the caller's stored role. The role is read
// from the database on every request, never from token claims, so a demotion
// takes effect immediately.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		admin, err := s.userRepo.IsAdmin(c.UserContext(), userID)
		if err != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "admin role check failed",
				slog.Any("user_id", userID),
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Diplomat Corner API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
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

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
