package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/shoplens/shoplens-backend/internal/logger"
  "github.com/shoplens/shoplens-backend/internal/types"
)

type DatasetRepo interface {
  Create(ctx context.Context, tx *gorm.DB, datasets []*types.Dataset) ([]*types.Dataset, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Dataset, error)
  GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*types.Dataset, error)
  List(ctx context.Context, tx *gorm.DB) ([]*types.Dataset, error)
  UpdateFingerprint(ctx context.Context, tx *gorm.DB, id uuid.UUID, fingerprint string, rowCount int) error
  UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type datasetRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDatasetRepo(db *gorm.DB, baseLog *logger.Logger) DatasetRepo {
  repoLog := baseLog.With("repo", "DatasetRepo")
  return &datasetRepo{db: db, log: repoLog}
}

func (dr *datasetRepo) Create(ctx context.Context, tx *gorm.DB, datasets []*types.Dataset) ([]*types.Dataset, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  if len(datasets) == 0 {
    return []*types.Dataset{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&datasets).Error; err != nil {
    return nil, err
  }

  return datasets, nil
}

func (dr *datasetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Dataset, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var result types.Dataset
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (dr *datasetRepo) GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*types.Dataset, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var result types.Dataset
  if err := transaction.WithContext(ctx).
    Where("fingerprint = ?", fingerprint).
    Order("created_at ASC").
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (dr *datasetRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Dataset, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.Dataset
  if err := transaction.WithContext(ctx).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (dr *datasetRepo) UpdateFingerprint(ctx context.Context, tx *gorm.DB, id uuid.UUID, fingerprint string, rowCount int) error {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Dataset{}).
    Where("id = ?", id).
    Updates(map[string]interface{}{
      "fingerprint": fingerprint,
      "row_count":   rowCount,
    }).Error
}

func (dr *datasetRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Dataset{}).
    Where("id = ?", id).
    Update("status", status).Error
}

func (dr *datasetRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  return transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Dataset{}).Error
}
