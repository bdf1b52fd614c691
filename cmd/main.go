package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sitewatch/safety-backend/internal/db"
	"github.com/sitewatch/safety-backend/internal/handlers"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/middleware"
	"github.com/sitewatch/safety-backend/internal/observability"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/server"
	"github.com/sitewatch/safety-backend/internal/services"
	"github.com/sitewatch/safety-backend/internal/utils"
)

const serviceName = "safety-backend"

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 86400, log)
	allowedOrigins := strings.Split(utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000", log), ",")

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis (optional dashboard cache)
	var cache *redis.Client
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if pingErr := cache.Ping(context.Background()).Err(); pingErr != nil {
			log.Warn("Redis unreachable, dashboard cache disabled", "error", pingErr)
			cache = nil
		}
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	masterDataRepo := repos.NewMasterDataRepo(thePG, log)
	violationRepo := repos.NewViolationRepo(thePG, log)
	historyRepo := repos.NewHistoryRepo(thePG, log)
	lookupRepo := repos.NewLookupRepo(thePG, log)
	settingRepo := repos.NewSettingRepo(thePG, log)
	chatHistoryRepo := repos.NewChatHistoryRepo(thePG, log)
	dashboardRepo := repos.NewDashboardRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		log.Error("Could not init AIClient", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	masterDataService := services.NewMasterDataService(thePG, log, masterDataRepo)
	violationService := services.NewViolationService(thePG, log, masterDataRepo, violationRepo, historyRepo)
	historyService := services.NewHistoryService(thePG, log, historyRepo)
	dashboardService := services.NewDashboardService(thePG, log, masterDataRepo, dashboardRepo, cache)
	lookupService := services.NewLookupService(thePG, log, lookupRepo, violationRepo)
	settingService := services.NewSettingService(thePG, log, settingRepo)
	chatService := services.NewChatService(thePG, log, chatHistoryRepo, aiClient)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	masterDataHandler := handlers.NewMasterDataHandler(masterDataService)
	violationHandler := handlers.NewViolationHandler(violationService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	lookupHandler := handlers.NewLookupHandler(lookupService)
	settingHandler := handlers.NewSettingHandler(settingService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:       serviceName,
		AllowedOrigins:    allowedOrigins,
		AuthMiddleware:    authMiddleware,
		AuthHandler:       authHandler,
		MasterDataHandler: masterDataHandler,
		ViolationHandler:  violationHandler,
		HistoryHandler:    historyHandler,
		DashboardHandler:  dashboardHandler,
		LookupHandler:     lookupHandler,
		SettingHandler:    settingHandler,
		ChatHandler:       chatHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
