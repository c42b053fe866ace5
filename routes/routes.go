package routes

import (
	"time"

	"orgmanager-backend/archive"
	"orgmanager-backend/config"
	"orgmanager-backend/handlers"
	"orgmanager-backend/importer"
	"orgmanager-backend/middleware"
	"orgmanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, im *importer.Importer, jobs *utils.JobStore, archiver archive.Archiver, cfg config.ImportConfig) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	importHandler := &handlers.ImportHandler{
		DB:       db,
		Importer: im,
		Jobs:     jobs,
		Archiver: archiver,
		Config:   cfg,
	}

	importLimiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/import/history", importHandler.History)
		admin.GET("/import/jobs/:id", importHandler.GetJob)

		imports := admin.Group("/import")
		imports.Use(importLimiter.Middleware())
		imports.POST("", importHandler.Import)
		imports.POST("/jobs", importHandler.StartJob)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
