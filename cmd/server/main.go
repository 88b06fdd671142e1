package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"hris_backend/internal/config"
	"hris_backend/internal/events"
	"hris_backend/internal/handler"
	"hris_backend/internal/middleware"
	"hris_backend/internal/model"
	"hris_backend/internal/repository"
	"hris_backend/internal/service"
	"hris_backend/internal/storage"
	"hris_backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}

	// --- Configuration ---
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load app config")
	}
	setupLogger(appCfg)

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load DB config")
	}

	if err := os.MkdirAll(appCfg.UploadsDir, os.ModePerm); err != nil {
		log.Fatal().Err(err).Str("dir", appCfg.UploadsDir).Msg("failed to create uploads directory")
	}

	// --- Database Connection ---
	ctx := context.Background()
	dbPool, err := config.ConnectDB(ctx, dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	if err := config.AutoMigrate(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("failed to auto-migrate database")
	}

	// --- Event publishing ---
	var publisher events.Publisher = events.NoopPublisher{}
	if len(appCfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(appCfg.KafkaBrokers)
		log.Info().Strs("brokers", appCfg.KafkaBrokers).Msg("publishing events to kafka")
	} else {
		log.Warn().Msg("KAFKA_BROKERS not set, events and notifications are dropped")
	}
	notifier := events.NewNotifier(publisher, appCfg.NotificationsTopic)

	// --- Initialize Utilities ---
	clock := utils.SystemClock{}
	jwtUtil := utils.NewJWTUtil(appCfg.JWTSecret, appCfg.JWTExpiration, clock)
	revocations := utils.NewRevocationRegistry(clock, utils.DefaultSweepInterval)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	absenceRepo := repository.NewAbsenceRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, revocations, clock)
	absenceService := service.NewAbsenceService(absenceRepo, clock, appCfg.Location)
	userService := service.NewUserService(service.UserServiceDeps{
		UserRepo:    userRepo,
		AbsenceRepo: absenceRepo,
		Avatars:     storage.NewLocalAvatarStore(appCfg.UploadsDir),
		Publisher:   publisher,
		Notifier:    notifier,
		EventsTopic: appCfg.UserEventsTopic,
		Clock:       clock,
		Location:    appCfg.Location,
	})

	if err := userService.SeedUsers(ctx, []service.SeedAccount{
		{Name: "admin", Email: appCfg.SeedAdminEmail, Password: appCfg.SeedAdminPassword, Role: model.RoleAdmin, Position: "Administrator"},
		{Name: "user", Email: appCfg.SeedUserEmail, Password: appCfg.SeedUserPassword, Role: model.RoleUser, Position: "Staff"},
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to seed users")
	}

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, userService)
	absenceHandler := handler.NewAbsenceHandler(absenceService, appCfg.Location)
	userHandler := handler.NewUserHandler(userService)
	notificationHandler := handler.NewNotificationHandler(notifier)

	// --- Setup Gin Router ---
	if appCfg.GinMode != "" {
		gin.SetMode(appCfg.GinMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Simple CORS middleware (allow all for development)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
	router.Static("/uploads", appCfg.UploadsDir)

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(authService)
	adminRoleMW := middleware.AdminMiddleware()
	userRoleMW := middleware.UserMiddleware()
	employeeRoleMW := middleware.StrictlyUserMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup, jwtAuthMW)
	absenceHandler.RegisterAbsenceRoutes(apiGroup, jwtAuthMW, userRoleMW, employeeRoleMW, adminRoleMW)
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW, userRoleMW, adminRoleMW)
	notificationHandler.RegisterNotificationRoutes(apiGroup, jwtAuthMW, userRoleMW, adminRoleMW)

	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + appCfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", appCfg.ServerPort).Str("timezone", appCfg.Location.String()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("event publisher close error")
	}

	log.Info().Msg("server exiting")
}

func setupLogger(cfg *config.AppConfig) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
