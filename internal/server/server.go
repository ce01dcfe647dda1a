// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"revlink/internal/cache"
	"revlink/internal/config"
	"revlink/internal/database"
	"revlink/internal/featureflags"
	"revlink/internal/middleware"
	"revlink/internal/models"
	"revlink/internal/notifications"
	"revlink/internal/otp"
	"revlink/internal/push"
	"revlink/internal/repository"
	"revlink/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// verificationService is the phone verification surface consumed by handlers.
type verificationService interface {
	Start(ctx context.Context, phone string) (string, error)
	Check(ctx context.Context, callerID uuid.UUID, requestID, code, phone string) error
}

// matchService resolves contact hash batches.
type matchService interface {
	LookupByHashes(ctx context.Context, hashes []string) ([]models.User, error)
}

// friendService is the friendship graph surface consumed by handlers.
type friendService interface {
	SendRequest(ctx context.Context, callerID, targetID uuid.UUID) (*models.Friendship, error)
	AcceptRequest(ctx context.Context, callerID, friendshipID uuid.UUID) (*models.Friendship, error)
	RejectRequest(ctx context.Context, callerID, friendshipID uuid.UUID) error
	RemoveFriend(ctx context.Context, callerID, friendshipID uuid.UUID) error
	Friends(ctx context.Context, userID uuid.UUID) ([]models.User, error)
	PendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
	SentRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
	Status(ctx context.Context, callerID, targetID uuid.UUID) (string, *models.Friendship, error)
}

// notificationService is the notification feed surface consumed by handlers.
type notificationService interface {
	Feed(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, callerID uuid.UUID, ids []uuid.UUID) error
	UnreadCount(ctx context.Context, callerID uuid.UUID) (int64, error)
}

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	notifier       *notifications.Notifier
	featureFlags   *featureflags.Manager

	tokenRepo repository.PushTokenRepository

	verifications verificationService
	matches       matchService
	friends       friendService
	notifs        notificationService
}

// NewServer creates a server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	otpVendor := otp.NewClient(cfg.OTPVendorURL, cfg.OTPVendorAPIKey)
	var sender push.Sender = push.NopSender{}
	if cfg.PushVendorURL != "" {
		sender = push.NewClient(cfg.PushVendorURL, cfg.PushVendorAPIKey)
	}

	return NewServerWithDeps(cfg, db, redisClient, otpVendor, sender)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use it to supply an in-memory database and stub vendors.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, otpVendor otp.Vendor, sender push.Sender) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	tokenRepo := repository.NewPushTokenRepository(db)

	prom := middleware.InitMetrics("revlink-api")

	var notifier *notifications.Notifier
	if redisClient != nil {
		notifier = notifications.NewNotifier(redisClient)
	}

	notifService := service.NewNotificationService(notifRepo, tokenRepo, sender, notifier)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		notifier:       notifier,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		tokenRepo:      tokenRepo,
		verifications:  service.NewVerificationService(otpVendor, userRepo),
		matches:        service.NewMatchService(userRepo, cfg.LookupMaxHashes),
		friends:        service.NewFriendService(friendRepo, userRepo, notifService),
		notifs:         notifService,
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.TracingMiddleware())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limit per IP. Endpoint-specific limits are applied on the
	// graph-write and lookup routes.
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

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	protected := api.Group("", s.AuthRequired())

	// Phone verification
	verify := protected.Group("/verify")
	verify.Post("/start", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "verify_start"), s.StartVerification)
	verify.Post("/check", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "verify_check"), s.CheckVerification)

	// Contact matching
	contacts := protected.Group("/contacts")
	contacts.Post("/lookup", middleware.RateLimit(
		s.redis, 10, time.Minute, "contact_lookup"), s.LookupContacts)

	// Friendship graph. Specific /requests and /status routes come before the
	// generic /:friendshipId route.
	friends := protected.Group("/friends")
	friends.Get("/", s.GetFriends)
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/reject", s.RejectFriendRequest)
	friends.Get("/status/:userId", s.GetFriendshipStatus)
	friends.Delete("/:friendshipId", s.RemoveFriend)

	// Notification feed
	notifs := protected.Group("/notifications")
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread-count", s.GetUnreadCount)
	notifs.Post("/read", s.MarkNotificationsRead)

	// Device push tokens
	tokens := protected.Group("/push-tokens")
	tokens.Post("/", s.RegisterPushToken)
	tokens.Delete("/:token", s.UnregisterPushToken)

	// Client feature flags
	protected.Get("/feature-flags", s.GetFeatureFlags)
}

// GetFeatureFlags handles GET /api/feature-flags. The client fetches its
// evaluated snapshot at startup to decide which discovery features to show.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(callerID(c)),
	})
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only degrades rate limiting and in-app events, so it reports but
	// does not fail readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. Sessions are issued by
// the external auth service; only validation happens here.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
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

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", userID)
		// Sync to the user context so the context-aware logger sees it in
		// deep service layers.
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
