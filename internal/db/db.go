package db

import (
  "fmt"
  "strings"
  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  "github.com/shoplens/shoplens-backend/internal/logger"
  "github.com/shoplens/shoplens-backend/internal/types"
  "github.com/shoplens/shoplens-backend/internal/utils"
)

type Service struct {
  db  *gorm.DB
  log *logger.Logger
}

// NewService opens the database selected by DB_DRIVER: "postgres" for
// deployments, "sqlite" (the default) for local runs and tests.
func NewService(log *logger.Logger) (*Service, error) {
  serviceLog := log.With("service", "DBService")

  driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "sqlite", log))

  var (
    db  *gorm.DB
    err error
  )
  switch driver {
  case "postgres":
    db, err = openPostgres(log)
  case "sqlite":
    db, err = openSQLite(log)
  default:
    return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
  }
  if err != nil {
    log.Error("Failed to connect to database", "driver", driver, "error", err)
    return nil, fmt.Errorf("Failed to connect to database: %w", err)
  }

  serviceLog.Info("Database connected", "driver", driver)
  return &Service{db: db, log: serviceLog}, nil
}

func openPostgres(log *logger.Logger) (*gorm.DB, error) {
  host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  port := utils.GetEnv("POSTGRES_PORT", "5432", log)
  user := utils.GetEnv("POSTGRES_USER", "postgres", log)
  password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  name := utils.GetEnv("POSTGRES_NAME", "shoplens", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    return nil, err
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }
  return db, nil
}

func openSQLite(log *logger.Logger) (*gorm.DB, error) {
  path := utils.GetEnv("SQLITE_PATH", "data/shoplens.db", log)
  return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

func (s *Service) AutoMigrateAll() error {
  s.log.Info("Auto migrating tables...")
  err := s.db.AutoMigrate(
    &types.Dataset{},
    &types.SaleRecord{},
    &types.InventoryRecord{},
    &types.Insight{},
  )
  if err != nil {
    s.log.Error("Auto migration failed", "error", err)
    return err
  }
  return nil
}

func (s *Service) DB() *gorm.DB {
  return s.db
}
