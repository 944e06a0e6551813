package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/shoplens/shoplens-backend/internal/logger"
  "github.com/shoplens/shoplens-backend/internal/types"
)

type SaleRecordRepo interface {
  Create(ctx context.Context, tx *gorm.DB, records []*types.SaleRecord) ([]*types.SaleRecord, error)
  GetByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) ([]*types.SaleRecord, error)
  CountByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) (int64, error)
  DeleteByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) error
}

type saleRecordRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSaleRecordRepo(db *gorm.DB, baseLog *logger.Logger) SaleRecordRepo {
  repoLog := baseLog.With("repo", "SaleRecordRepo")
  return &saleRecordRepo{db: db, log: repoLog}
}

func (sr *saleRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.SaleRecord) ([]*types.SaleRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if len(records) == 0 {
    return []*types.SaleRecord{}, nil
  }

  if err := transaction.WithContext(ctx).CreateInBatches(&records, 500).Error; err != nil {
    return nil, err
  }

  return records, nil
}

func (sr *saleRecordRepo) GetByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) ([]*types.SaleRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.SaleRecord
  if err := transaction.WithContext(ctx).
    Where("dataset_id = ?", datasetID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *saleRecordRepo) CountByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.SaleRecord{}).
    Where("dataset_id = ?", datasetID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (sr *saleRecordRepo) DeleteByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  return transaction.WithContext(ctx).
    Where("dataset_id = ?", datasetID).
    Delete(&types.SaleRecord{}).Error
}

type InventoryRecordRepo interface {
  Create(ctx context.Context, tx *gorm.DB, records []*types.InventoryRecord) ([]*types.InventoryRecord, error)
  GetByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) ([]*types.InventoryRecord, error)
  DeleteByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) error
}

type inventoryRecordRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewInventoryRecordRepo(db *gorm.DB, baseLog *logger.Logger) InventoryRecordRepo {
  repoLog := baseLog.With("repo", "InventoryRecordRepo")
  return &inventoryRecordRepo{db: db, log: repoLog}
}

func (ir *inventoryRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.InventoryRecord) ([]*types.InventoryRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  if len(records) == 0 {
    return []*types.InventoryRecord{}, nil
  }

  if err := transaction.WithContext(ctx).CreateInBatches(&records, 500).Error; err != nil {
    return nil, err
  }

  return records, nil
}

func (ir *inventoryRecordRepo) GetByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) ([]*types.InventoryRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  var results []*types.InventoryRecord
  if err := transaction.WithContext(ctx).
    Where("dataset_id = ?", datasetID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ir *inventoryRecordRepo) DeleteByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  return transaction.WithContext(ctx).
    Where("dataset_id = ?", datasetID).
    Delete(&types.InventoryRecord{}).Error
}
