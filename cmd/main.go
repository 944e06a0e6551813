package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/shoplens/shoplens-backend/internal/cache"
  "github.com/shoplens/shoplens-backend/internal/clients"
  "github.com/shoplens/shoplens-backend/internal/config"
  "github.com/shoplens/shoplens-backend/internal/db"
  "github.com/shoplens/shoplens-backend/internal/explain"
  "github.com/shoplens/shoplens-backend/internal/handlers"
  "github.com/shoplens/shoplens-backend/internal/insights"
  "github.com/shoplens/shoplens-backend/internal/jobs"
  "github.com/shoplens/shoplens-backend/internal/logger"
  "github.com/shoplens/shoplens-backend/internal/observability"
  "github.com/shoplens/shoplens-backend/internal/repos"
  "github.com/shoplens/shoplens-backend/internal/server"
  "github.com/shoplens/shoplens-backend/internal/services"
  "github.com/shoplens/shoplens-backend/internal/utils"
)

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

  ctx := context.Background()

  // Config
  cfg, err := config.Load(log)
  if err != nil {
    log.Error("Could not load config", "error", err)
    os.Exit(1)
  }

  // Tracing
  otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: "shoplens",
    Environment: utils.GetEnv("ENVIRONMENT", "development", log),
    Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer func() {
      shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = otelShutdown(shutdownCtx)
    }()
  }

  // Database
  dbService, err := db.NewService(log)
  if err != nil {
    log.Error("Database init failed", "error", err)
    os.Exit(1)
  }
  if err = dbService.AutoMigrateAll(); err != nil {
    log.Error("Auto migration failed", "error", err)
    os.Exit(1)
  }
  theDB := dbService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  datasetRepo := repos.NewDatasetRepo(theDB, log)
  saleRecordRepo := repos.NewSaleRecordRepo(theDB, log)
  inventoryRecordRepo := repos.NewInventoryRecordRepo(theDB, log)
  insightRepo := repos.NewInsightRepo(theDB, log)

  // Cache
  log.Info("Setting up cache from main...")
  var store cache.Store
  switch cfg.Cache.Backend {
  case "redis":
    redisStore, err := cache.NewRedisStore(log)
    if err != nil {
      log.Error("Could not init redis cache store", "error", err)
      os.Exit(1)
    }
    store = redisStore
  default:
    fileStore, err := cache.NewFileStore(cfg.Cache.FileDir, log)
    if err != nil {
      log.Error("Could not init file cache store", "error", err)
      os.Exit(1)
    }
    store = fileStore
  }
  cacheManager := cache.NewManager(store, time.Duration(cfg.Cache.TTLSeconds)*time.Second, log)

  // Services
  log.Info("Setting up Services from main...")
  datasetService := services.NewDatasetService(theDB, datasetRepo, saleRecordRepo, inventoryRecordRepo, insightRepo, log)
  analyticsService := services.NewAnalyticsService(datasetService, cacheManager, cfg.Analytics, log)
  engine := insights.NewEngine(log, nil)
  insightService := services.NewInsightService(theDB, datasetService, analyticsService, insightRepo, engine, log)

  generator, err := clients.NewGenerator(log)
  if err != nil {
    log.Warn("Could not init explanation generator", "error", err)
  }
  explainer := explain.NewService(generator, cfg.Explain, log)
  explainService := services.NewExplainService(datasetService, insightService, explainer, log)

  // Background compute pool
  pool := jobs.NewPool(cfg.Worker, log)
  pool.Start(ctx)
  defer pool.Stop()

  // Handlers
  log.Info("Setting up handlers from main...")
  datasetHandler := handlers.NewDatasetHandler(datasetService, analyticsService, pool)
  analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
  insightHandler := handlers.NewInsightHandler(insightService)
  explainHandler := handlers.NewExplainHandler(explainService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    Log:              log,
    DatasetHandler:   datasetHandler,
    AnalyticsHandler: analyticsHandler,
    InsightHandler:   insightHandler,
    ExplainHandler:   explainHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
