package router

import (
	"log"
	"os"
	"time"

	"github.com/aokihara/unitrack/database"
	"github.com/aokihara/unitrack/handlers"
	auth_handlers "github.com/aokihara/unitrack/handlers/auth"
	course_handlers "github.com/aokihara/unitrack/handlers/course"
	credit_handlers "github.com/aokihara/unitrack/handlers/credit"
	tag_handlers "github.com/aokihara/unitrack/handlers/tag"
	"github.com/aokihara/unitrack/services"
	"github.com/aokihara/unitrack/utils/auth"
	"github.com/aokihara/unitrack/utils/cache"
	"github.com/aokihara/unitrack/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "unitrack-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis for brute force protection and idempotency dedup
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and idempotent creation will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	var idempotencyStore *services.IdempotencyStore
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
		idempotencyStore = services.NewIdempotencyStore(redisCache)
	}

	// Initialize auth middleware with DB for blacklist checking
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Initialize handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	courseHandler := course_handlers.NewCourseHandler(db, idempotencyStore)
	tagHandler := tag_handlers.NewTagHandler(db)
	creditHandler := credit_handlers.NewCreditHandler(db)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.GetProfile)

	// Course routes
	courseGroup := api.Group("/courses", authMiddleware.Required())
	courseGroup.Post("/", courseHandler.CreateCourse)
	courseGroup.Get("/", courseHandler.ListCourses)
	courseGroup.Delete("/", courseHandler.DeleteCourse)

	// Tag routes; listing stays reachable without credentials
	tagGroup := api.Group("/tags")
	tagGroup.Get("/", authMiddleware.Optional(), tagHandler.ListTags)
	tagGroup.Post("/", authMiddleware.Required(), tagHandler.CreateTag)

	// Credit aggregation
	api.Get("/credits/summary", authMiddleware.Required(), creditHandler.GetSummary)
}
