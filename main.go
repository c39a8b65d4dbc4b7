package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/inetsl/fieldvisit_backend/config"
	"github.com/inetsl/fieldvisit_backend/controllers"
	"github.com/inetsl/fieldvisit_backend/middleware"
	"github.com/inetsl/fieldvisit_backend/repositories"
	"github.com/inetsl/fieldvisit_backend/routes"
	"github.com/inetsl/fieldvisit_backend/services"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	now := func() time.Time { return time.Now().UTC() }

	// Connect to database
	client := config.ConnectDB(cfg)
	db := client.Database(cfg.DBName)
	if err := config.EnsureIndexes(db); err != nil {
		log.Fatalf("MongoDB index setup error: %v", err)
	}

	// Access token revocation: Redis when reachable, memory otherwise
	var revoker services.TokenRevoker = services.NewMemoryRevoker(now)
	if redisClient := config.ConnectRedis(); redisClient != nil {
		defer redisClient.Close()
		revoker = services.NewRedisRevoker(redisClient, now)
	}

	// Signature storage
	var signatureStore services.SignatureStore
	if app := config.InitFirebase(cfg); app != nil {
		signatureStore = services.NewFirebaseSignatureStore(app, cfg.StorageBucket)
	} else {
		if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
			log.Fatalf("Failed to create upload directory: %v", err)
		}
		signatureStore = services.NewLocalSignatureStore(cfg.UploadDir, cfg.PublicBaseURL)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	visitRepo := repositories.NewVisitRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	tx := repositories.NewMongoTransactor(client, cfg.MongoTransactions)

	// Initialize services
	authService := services.NewAuthService(userRepo, revoker, services.AuthSettings{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, now)
	visitService := services.NewVisitService(visitRepo, paymentRepo, companyRepo, userRepo, tx, now)
	paymentService := services.NewPaymentService(paymentRepo, visitRepo, companyRepo, now)
	rollupService := services.NewRollupService(visitRepo, paymentRepo, companyRepo, userRepo, now)
	companyService := services.NewCompanyService(companyRepo, userRepo, now)
	userService := services.NewUserService(userRepo)
	signatureService := services.NewSignatureService(signatureStore)

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = services.NewValidator()
	e.HTTPErrorHandler = controllers.HTTPErrorHandler

	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: cfg.CORSAllowedOrigins,
		HSTS:           cfg.CookieSecure,
	}))
	e.Use(echoMiddleware.BodyLimit(cfg.BodyLimit))
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{http.MethodGet, http.MethodHead}, "/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status, database := http.StatusOK, "connected"
		if err := client.Ping(ctx, nil); err != nil {
			status, database = http.StatusServiceUnavailable, "unreachable"
		}
		return c.JSON(status, map[string]string{
			"status":   http.StatusText(status),
			"database": database,
		})
	})

	routes.SetupRoutes(e, authService, routes.Controllers{
		Auth:      controllers.NewAuthController(authService, cfg.CookieSecure),
		Visits:    controllers.NewVisitController(visitService, rollupService),
		Payments:  controllers.NewPaymentController(paymentService, rollupService),
		Companies: controllers.NewCompanyController(companyService),
		Users:     controllers.NewUserController(userService),
		Uploads:   controllers.NewUploadController(signatureService),
	})
	routes.RegisterFileRoutes(e, cfg.UploadDir)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
}
