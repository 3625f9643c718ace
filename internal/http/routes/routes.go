package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/auth"
	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/internal/features/progress"
	"github.com/devamrit/learnhub-server-go/internal/features/purchase"
	"github.com/devamrit/learnhub-server-go/internal/middleware"
	"github.com/devamrit/learnhub-server-go/pkg/config"
	"github.com/devamrit/learnhub-server-go/pkg/health"
)

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, cfg *config.Config, db *gorm.DB, logger *slog.Logger, purchaseService *purchase.Service) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if !cfg.IsProduction() {
		engine.GET("/debug/db-stats", healthHandler.DBStats)
	}

	api := engine.Group("/api")

	authenticated := middleware.Authenticate(db, cfg.JWTSecret, logger)

	authHandler := auth.NewHandler(db, logger, cfg)
	auth.RegisterRoutes(api, authHandler, authenticated)

	courseHandler := course.NewHandler(db, logger)
	course.RegisterRoutes(api, courseHandler)

	progressHandler := progress.NewHandler(db, logger)
	progress.RegisterRoutes(api, progressHandler, authenticated)

	purchaseHandler := purchase.NewHandler(purchaseService, logger)
	purchase.RegisterRoutes(api, purchaseHandler, authenticated)
}
