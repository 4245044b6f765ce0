package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/servibook/servibook-backend/config"
	"github.com/servibook/servibook-backend/internal/app/controller"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/internal/app/service"
	"github.com/servibook/servibook-backend/internal/db"
	"github.com/servibook/servibook-backend/internal/middleware"
	"github.com/servibook/servibook-backend/internal/router"
	"github.com/servibook/servibook-backend/internal/scheduler"
	"github.com/servibook/servibook-backend/internal/websocket"
	"github.com/servibook/servibook-backend/pkg/logger"
	"github.com/servibook/servibook-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting ServiBook Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed initial data (admin account, base categories)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed initial data", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis enables the token blacklist; without it logout is best-effort
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Failed to connect to Redis, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// WebSocket hub for the notification feed
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	ownerRequestRepo := repository.NewOwnerRequestRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	scheduleRepo := repository.NewScheduleRepository(db.GetDB())
	appointmentRepo := repository.NewAppointmentRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, hub)
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo, ownerRequestRepo, businessRepo, notificationService)
	businessService := service.NewBusinessService(businessRepo, categoryRepo, reviewRepo)
	scheduleService := service.NewScheduleService(businessRepo, scheduleRepo, appointmentRepo)
	appointmentService := service.NewAppointmentService(appointmentRepo, businessRepo, scheduleService, notificationService)
	categoryService := service.NewCategoryService(categoryRepo, notificationService)
	reviewService := service.NewReviewService(reviewRepo, businessRepo, appointmentRepo, notificationService)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	businessController := controller.NewBusinessController(businessService, scheduleService, appointmentService)
	appointmentController := controller.NewAppointmentController(appointmentService)
	categoryController := controller.NewCategoryController(categoryService)
	reviewController := controller.NewReviewController(reviewService)
	ownerRequestController := controller.NewOwnerRequestController(userService)
	adminController := controller.NewAdminController(userService, categoryService)
	notificationController := controller.NewNotificationController(notificationService, hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Daily sweep that completes past appointments
	appointmentScheduler := scheduler.NewAppointmentScheduler(appointmentService)
	if err := appointmentScheduler.Start(); err != nil {
		logger.Error("Failed to start appointment scheduler", err)
	}
	defer appointmentScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		businessController,
		appointmentController,
		categoryController,
		reviewController,
		ownerRequestController,
		adminController,
		notificationController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
