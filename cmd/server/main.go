package main

import (
	"flag"
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/civicwatch/infra-report-api/internal/config"
	"github.com/civicwatch/infra-report-api/internal/constants"
	"github.com/civicwatch/infra-report-api/internal/database"
	"github.com/civicwatch/infra-report-api/internal/handlers"
	"github.com/civicwatch/infra-report-api/internal/logging"
	"github.com/civicwatch/infra-report-api/internal/middleware"
	"github.com/civicwatch/infra-report-api/internal/repository"
	"github.com/civicwatch/infra-report-api/internal/services"
)

func main() {
	resetDB := flag.Bool("reset-db", false, "drop and recreate the schema, then exit (destructive)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if *resetDB {
		// Passing the flag is the explicit confirmation; reset never runs
		// as part of normal startup.
		if err := database.Reset(db, cfg, logger); err != nil {
			logger.Fatal("failed to reset database", zap.Error(err))
		}
		logger.Info("reset complete, exiting")
		return
	}

	// Run migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	actionRepo := repository.NewAdminActionRepository(db)
	issueTypeRepo := repository.NewIssueTypeRepository(db)

	authService := services.NewAuthService(userRepo, logger, cfg.QueryTimeout)
	reportService := services.NewReportService(reportRepo, actionRepo, issueTypeRepo, logger, cfg.QueryTimeout)
	statsService := services.NewStatsService(reportRepo, userRepo, logger, cfg.QueryTimeout, cfg.StatsWindowDays)

	authHandler := handlers.NewAuthHandler(authService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(reportService, authService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Fatal("failed to create Redis store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Infrastructure Report API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), middleware.RequireUser(authService), authHandler.GetCurrentUser)
		}

		// Report routes (protected)
		reports := api.Group("/reports")
		reports.Use(middleware.RequireAuth(), middleware.RequireUser(authService))
		{
			reports.POST("", reportHandler.CreateReport)
			reports.GET("", reportHandler.ListReports)
			reports.GET("/:id", reportHandler.GetReport)
		}

		api.GET("/issue-types", middleware.RequireAuth(), middleware.RequireUser(authService), reportHandler.ListIssueTypes)

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireUser(authService), middleware.RequireAdmin())
		{
			admin.GET("/reports", reportHandler.ListReports)
			admin.PATCH("/reports/:id/status", adminHandler.UpdateReportStatus)
			admin.GET("/reports/:id/actions", adminHandler.ListReportActions)
			admin.GET("/stats", statsHandler.GetOverview)
			admin.GET("/stats/daily", statsHandler.GetDailyCounts)
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.POST("/users/:username/reset-password", adminHandler.ResetPassword)
		}
	}

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
