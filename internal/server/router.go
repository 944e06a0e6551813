package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/shoplens/shoplens-backend/internal/handlers"
  "github.com/shoplens/shoplens-backend/internal/logger"
  "github.com/shoplens/shoplens-backend/internal/middleware"
)

type RouterConfig struct {
  Log              *logger.Logger
  DatasetHandler   *handlers.DatasetHandler
  AnalyticsHandler *handlers.AnalyticsHandler
  InsightHandler   *handlers.InsightHandler
  ExplainHandler   *handlers.ExplainHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.New()
  router.Use(gin.Recovery())
  router.Use(otelgin.Middleware("shoplens"))
  router.Use(middleware.RequestLogger(cfg.Log))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Datasets
    api.POST("/datasets", cfg.DatasetHandler.Create)
    api.GET("/datasets", cfg.DatasetHandler.List)
    api.GET("/datasets/:id", cfg.DatasetHandler.Get)
    api.POST("/datasets/:id/records", cfg.DatasetHandler.Ingest)
    api.DELETE("/datasets/:id", cfg.DatasetHandler.Delete)

    // Analytics
    api.GET("/datasets/:id/analytics/best-sellers", cfg.AnalyticsHandler.BestSellers)
    api.GET("/datasets/:id/analytics/revenue-contribution", cfg.AnalyticsHandler.RevenueContribution)
    api.GET("/datasets/:id/analytics/seasonality", cfg.AnalyticsHandler.Seasonality)
    api.GET("/datasets/:id/analytics/inventory-velocity", cfg.AnalyticsHandler.InventoryVelocity)
    api.GET("/datasets/:id/analytics/dead-stock", cfg.AnalyticsHandler.DeadStock)
    api.GET("/datasets/:id/analytics/profitability", cfg.AnalyticsHandler.Profitability)
    api.GET("/datasets/:id/analytics/trends", cfg.AnalyticsHandler.Trends)
    api.GET("/datasets/:id/analytics/daily-sales", cfg.AnalyticsHandler.DailySales)
    api.GET("/datasets/:id/analytics/forecast", cfg.AnalyticsHandler.Forecast)
    api.POST("/datasets/:id/recompute", cfg.AnalyticsHandler.ForceRecompute)

    // Insights
    api.POST("/datasets/:id/insights", cfg.InsightHandler.Generate)
    api.GET("/datasets/:id/insights", cfg.InsightHandler.List)

    // Explanations
    api.POST("/datasets/:id/explain", cfg.ExplainHandler.Explain)
  }

  return router
}
