package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"cardkeeper/internal/config"
	"cardkeeper/internal/database"
	"cardkeeper/internal/handlers"
	"cardkeeper/internal/logger"
	"cardkeeper/internal/middleware"
	"cardkeeper/internal/notify"
	"cardkeeper/internal/services"
	"cardkeeper/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// @title           Cardkeeper API
// @version         1.0
// @description     Cardkeeper tracks credit-card due dates and sends email/SMS reminders ahead of the 5 PM ET payment deadline.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validations
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Outbound delivery
	mailer := notify.NewResendMailer(appConfig.ResendAPIKey, appConfig.EmailFrom)
	smsSender := notify.NewLogSMSSender()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	cardService := services.NewCardService(db, appConfig.ReminderZone)
	alertService := services.NewAlertService(db)
	auditService := services.NewAuditService(db)
	reminderService := services.NewReminderService(db, appConfig.ReminderZone, mailer, smsSender, appConfig.AppBaseURL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	cardHandler := handlers.NewCardHandler(cardService, auditService)
	alertHandler := handlers.NewAlertHandler(alertService, auditService)
	cronHandler := handlers.NewCronHandler(reminderService)

	// In-process sweep schedule. The HTTP trigger endpoint stays available
	// for external schedulers; the notification log keeps the two from
	// double-sending.
	scheduler := cron.New(cron.WithLocation(appConfig.ReminderZone))
	_, err = scheduler.AddFunc(appConfig.ReminderCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := reminderService.Sweep(ctx, time.Now()); err != nil {
			log.Errorw("scheduled reminder sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder cron spec %q: %w", appConfig.ReminderCronSpec, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation. The docs package is generated by
	// `swag init -g cmd/api/main.go -o internal/docs`; without it the
	// route is left unregistered instead of serving errors.
	if _, err := swag.ReadDoc(); err == nil {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	} else {
		log.Warnw("swagger docs not generated, /swagger disabled")
	}

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Scheduler trigger, secured by shared secret rather than user JWT
	router.POST("/api/cron/reminders",
		middleware.CronAuthMiddleware(appConfig.CronSecret), cronHandler.TriggerReminders)

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Card routes
	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.GetCards)
	cards.GET("/:id", cardHandler.GetCard)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.POST("/:id/paid", cardHandler.MarkPaid)
	cards.DELETE("/:id/paid", cardHandler.UndoPaid)
	cards.POST("/:id/shares", cardHandler.ShareCard)
	cards.GET("/:id/shares", cardHandler.GetCardShares)
	cards.DELETE("/:id/shares/:userId", cardHandler.UnshareCard)

	// Alert routes
	alerts := protected.Group("/alerts")
	alerts.POST("", alertHandler.CreateAlert)
	alerts.GET("", alertHandler.GetAlerts)
	alerts.DELETE("/:id", alertHandler.DeleteAlert)

	log.Infof("Starting Cardkeeper backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
