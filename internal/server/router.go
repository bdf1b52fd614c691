package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sitewatch/safety-backend/internal/handlers"
	"github.com/sitewatch/safety-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AllowedOrigins    []string
	AuthMiddleware    *middleware.AuthMiddleware
	AuthHandler       *handlers.AuthHandler
	MasterDataHandler *handlers.MasterDataHandler
	ViolationHandler  *handlers.ViolationHandler
	HistoryHandler    *handlers.HistoryHandler
	DashboardHandler  *handlers.DashboardHandler
	LookupHandler     *handlers.LookupHandler
	SettingHandler    *handlers.SettingHandler
	ChatHandler       *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestID())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	api.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.POST("/change-password", cfg.AuthHandler.ChangePassword)
	protected.GET("/profile", cfg.AuthHandler.Profile)
	protected.GET("/users", cfg.AuthMiddleware.RequireAdmin(), cfg.AuthHandler.ListUsers)

	// Worklist
	protected.GET("/master-data", cfg.MasterDataHandler.List)

	// Violations
	protected.GET("/violations", cfg.ViolationHandler.List)
	protected.POST("/violations", cfg.ViolationHandler.Submit)
	protected.PUT("/violations/:id", cfg.ViolationHandler.Patch)
	protected.PATCH("/violations/:id", cfg.ViolationHandler.MarkReviewed)
	protected.GET("/violations/stats", cfg.DashboardHandler.Stats)
	protected.GET("/violations/count", cfg.DashboardHandler.Count)

	// Histories
	protected.GET("/history", cfg.HistoryHandler.List)

	// Dashboard
	protected.GET("/dashboard/action-taken", cfg.DashboardHandler.ActionTaken)
	protected.GET("/dashboard/severity", cfg.DashboardHandler.Severity)
	protected.GET("/dashboard/categories", cfg.DashboardHandler.Categories)
	protected.GET("/dashboard/violations-list/action-taken", cfg.DashboardHandler.ViolationsByActionTaken)
	protected.GET("/dashboard/violations-list/severity-based", cfg.DashboardHandler.ViolationsBySeverity)
	protected.GET("/dashboard/violations-list/activity-based", cfg.DashboardHandler.ViolationsByActivity)
	protected.POST("/report-chart", cfg.DashboardHandler.Report)

	// Lookups
	protected.GET("/categories", cfg.LookupHandler.Categories)
	protected.GET("/sites", cfg.LookupHandler.Sites)
	protected.GET("/zones", cfg.LookupHandler.Zones)
	protected.GET("/activities", cfg.LookupHandler.Activities)
	protected.GET("/types", cfg.LookupHandler.Types)

	// Settings
	protected.GET("/settings", cfg.SettingHandler.List)
	protected.GET("/settings/:id", cfg.SettingHandler.Get)
	protected.POST("/settings", cfg.SettingHandler.Create)
	protected.PUT("/settings/:id", cfg.SettingHandler.Update)
	protected.DELETE("/settings/:id", cfg.SettingHandler.Delete)

	// Assistant
	protected.GET("/chatbot", cfg.ChatHandler.Ask)
	protected.POST("/chat", cfg.ChatHandler.Stream)
	protected.GET("/chat-history", cfg.ChatHandler.History)
	protected.GET("/frequent-prompts", cfg.ChatHandler.FrequentPrompts)

	return router
}
