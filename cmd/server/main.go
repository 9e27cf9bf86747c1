package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/propgate/propgate/configs"
	"github.com/propgate/propgate/internal/application/services"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/billing"
	"github.com/propgate/propgate/internal/infrastructure/db"
	"github.com/propgate/propgate/internal/infrastructure/email"
	"github.com/propgate/propgate/internal/infrastructure/health"
	"github.com/propgate/propgate/internal/infrastructure/httpserver"
	"github.com/propgate/propgate/internal/infrastructure/redis"
	"github.com/propgate/propgate/internal/infrastructure/repositories"
	"github.com/propgate/propgate/internal/infrastructure/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting PropGate...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	redisCache := redis.NewRedisCache(redisClient, "appcache")

	// Repositories
	baseTenantRepo := repositories.NewTenantRepository(database, logger)
	tenantRepo := repositories.NewCachingTenantRepository(baseTenantRepo, redisCache, 10*time.Minute)
	userRepo := repositories.NewUserRepository(database, logger)
	propertyRepo := repositories.NewPropertyRepository(database, logger)
	leaseRepo := repositories.NewLeaseRepository(database, logger)
	receivableRepo := repositories.NewReceivableRepository(database, logger)
	dunningRepo := repositories.NewDunningRepository(database, logger)
	referralRepo := repositories.NewReferralRepository(database, logger)

	var rateLimitStore ports.RateLimitStore
	if cfg.RateLimit.UseRedis {
		rateLimitStore = repositories.NewRedisRateLimitStore(redisClient, cfg.RateLimit.KeyPrefix)
	} else {
		store := repositories.NewMemoryRateLimitStore()
		defer store.Close()
		rateLimitStore = store
	}

	// External adapters
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		CompanyName:    cfg.Email.CompanyName,
	}
	emailService, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}
	billingClient := billing.NewStripeClient(cfg.Stripe.SecretKey, logger)

	// Services
	jwtConfig := services.JWTConfig{
		Secret:         cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	}
	authService := services.NewAuthService(userRepo, tenantRepo, emailService, jwtConfig, logger)
	tenantService := services.NewTenantService(tenantRepo, userRepo, database.DB, logger)
	portfolioService := services.NewPortfolioService(propertyRepo, leaseRepo, receivableRepo, logger)
	dunningService := services.NewDunningService(tenantRepo, leaseRepo, receivableRepo, propertyRepo, dunningRepo, emailService, database.DB, logger)
	referralService := services.NewReferralService(tenantRepo, userRepo, referralRepo, billingClient, emailService, database.DB, logger)
	webhookService := services.NewBillingWebhookService(tenantRepo, referralService, cfg.Stripe.WebhookSecret, logger)
	exportService := services.NewExportService(tenantRepo, propertyRepo, leaseRepo, receivableRepo, dunningRepo, logger)
	rateLimiterService := services.NewRateLimiterService(rateLimitStore, logger)

	// Optional in-process scheduler for the daily dunning run
	jobScheduler, err := scheduler.New(dunningService, scheduler.Config{
		DunningEnabled: cfg.Jobs.DunningEnabled,
		DunningHour:    cfg.Jobs.DunningHour,
		DunningMinute:  cfg.Jobs.DunningMinute,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scheduler:", err)
	}
	jobScheduler.Start()
	defer func() {
		if err := jobScheduler.Stop(); err != nil {
			logger.WithError(err).Warn("Failed to stop scheduler")
		}
	}()

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	serverConfig := &httpserver.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		TLSCertFile:     cfg.Server.TLSCertFile,
		TLSKeyFile:      cfg.Server.TLSKeyFile,
		Environment:     cfg.Server.Environment,
		JobTriggerToken: cfg.Jobs.TriggerToken,
	}

	deps := httpserver.ServerDeps{
		AuthService:        authService,
		TenantService:      tenantService,
		PortfolioService:   portfolioService,
		DunningService:     dunningService,
		WebhookService:     webhookService,
		ExportService:      exportService,
		RateLimiterService: rateLimiterService,
		DB:                 database.DB,
		HealthCheckers:     hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
