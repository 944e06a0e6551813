package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/shoplens/shoplens-backend/internal/logger"
  "github.com/shoplens/shoplens-backend/internal/types"
)

// InsightFilter narrows List results. Zero values mean "no constraint".
type InsightFilter struct {
  Category   string
  Confidence string
  ActiveOnly bool
}

type InsightRepo interface {
  Create(ctx context.Context, tx *gorm.DB, insights []*types.Insight) ([]*types.Insight, error)
  List(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID, filter InsightFilter) ([]*types.Insight, error)
  DeactivateStale(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID, currentFingerprint string) error
  DeleteByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) error
}

type insightRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewInsightRepo(db *gorm.DB, baseLog *logger.Logger) InsightRepo {
  repoLog := baseLog.With("repo", "InsightRepo")
  return &insightRepo{db: db, log: repoLog}
}

func (ir *insightRepo) Create(ctx context.Context, tx *gorm.DB, insights []*types.Insight) ([]*types.Insight, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  if len(insights) == 0 {
    return []*types.Insight{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&insights).Error; err != nil {
    return nil, err
  }

  return insights, nil
}

func (ir *insightRepo) List(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID, filter InsightFilter) ([]*types.Insight, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  query := transaction.WithContext(ctx).
    Where("dataset_id = ?", datasetID)
  if filter.Category != "" {
    query = query.Where("category = ?", filter.Category)
  }
  if filter.Confidence != "" {
    query = query.Where("confidence = ?", filter.Confidence)
  }
  if filter.ActiveOnly {
    query = query.Where("is_active = ?", true)
  }

  var results []*types.Insight
  if err := query.Order("position ASC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// DeactivateStale flips off every insight whose fingerprint no longer
// matches the dataset's current one. Stale rows stay queryable for history
// but are never listed as active.
func (ir *insightRepo) DeactivateStale(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID, currentFingerprint string) error {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Insight{}).
    Where("dataset_id = ? AND fingerprint <> ?", datasetID, currentFingerprint).
    Update("is_active", false).Error
}

func (ir *insightRepo) DeleteByDatasetID(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  return transaction.WithContext(ctx).
    Where("dataset_id = ?", datasetID).
    Delete(&types.Insight{}).Error
}
