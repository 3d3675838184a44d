package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/mentorlink/booking-backend/internal/config"
	"github.com/mentorlink/booking-backend/internal/database"
	"github.com/mentorlink/booking-backend/internal/handlers"
	"github.com/mentorlink/booking-backend/internal/middleware"
	"github.com/mentorlink/booking-backend/internal/services"
	"github.com/mentorlink/booking-backend/pkg/mailer"
	"github.com/mentorlink/booking-backend/pkg/video"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting MentorLink Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Redis for finalize locks. A missing Redis is survivable:
	// the finalizer degrades to relying on the unique index alone.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, finalize locking degraded")
	} else {
		logger.Info("Redis connection established")
	}

	// Initialize repositories
	mentorRepo := database.NewMentorRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	sessionRepo := database.NewSessionRepository(db)

	// Initialize provider clients
	stripeService := services.NewStripeService(&cfg.Stripe, logger)
	if !stripeService.IsConfigured() {
		logger.Warn("Stripe secret key not configured - payment calls will fail")
	}

	roomProvisioner := video.NewRoomProvisioner(
		cfg.Video.APIURL,
		cfg.Video.APIKey,
		cfg.Video.Domain,
		cfg.Video.MaxCallers,
		cfg.Video.Timeout,
		logger,
	)

	tokenIssuer := video.NewTokenIssuer(cfg.Video.AppID, cfg.Video.AppSecret, cfg.Video.TokenTTL)
	if !tokenIssuer.IsConfigured() {
		logger.Warn("Video token credentials not configured - token issuance will fail")
	}

	// Initialize email gateway
	var emailGateway mailer.EmailGateway
	if cfg.Mail.Mode == "production" {
		logger.Info("Initializing Resend email gateway in production mode...")
		emailGateway = mailer.NewResendGateway(mailer.ResendConfig{
			APIURL:  cfg.Mail.APIURL,
			APIKey:  cfg.Mail.APIKey,
			From:    cfg.Mail.From,
			Timeout: cfg.Mail.Timeout,
		})
	} else {
		logger.Info("Email gateway in development mode (no actual email will be sent)")
		emailGateway = mailer.NewDevGateway(logger)
	}

	// Initialize services
	logger.Info("Initializing services...")
	notificationService := services.NewNotificationService(emailGateway, logger)
	paymentIntentService := services.NewPaymentIntentService(mentorRepo, stripeService, cfg.Stripe.Currency, logger)
	finalizerService := services.NewBookingFinalizerService(
		bookingRepo,
		sessionRepo,
		mentorRepo,
		stripeService,
		roomProvisioner,
		notificationService,
		redisClient,
		services.DefaultFinalizerConfig(),
		logger,
	)
	schedulerService := services.NewSessionSchedulerService(sessionRepo, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(paymentIntentService, finalizerService, bookingRepo, logger)
	videoHandler := handlers.NewVideoHandler(roomProvisioner, tokenIssuer, logger)
	sessionHandler := handlers.NewSessionHandler(schedulerService, sessionRepo, tokenIssuer, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Booking payment flow
		v1.POST("/create-payment-intent", bookingHandler.CreatePaymentIntent)
		v1.POST("/complete-booking", bookingHandler.CompleteBooking)
		v1.GET("/bookings", bookingHandler.ListBookings)
		v1.GET("/bookings/:id", bookingHandler.GetBooking)

		// Video conferencing
		v1.POST("/create-video-room", videoHandler.CreateVideoRoom)
		v1.POST("/generate-video-token", videoHandler.GenerateVideoToken)

		// Sessions
		v1.GET("/sessions/:id", sessionHandler.GetSession)
		v1.PUT("/sessions/:id/reschedule", sessionHandler.Reschedule)
		v1.POST("/sessions/:id/join", sessionHandler.JoinSession)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		logger.Errorf("Failed to close Redis client: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler returns a liveness endpoint that also pings the database
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
