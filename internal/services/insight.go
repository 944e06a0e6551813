package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/shoplens/shoplens-backend/internal/analytics"
	"github.com/shoplens/shoplens-backend/internal/insights"
	"github.com/shoplens/shoplens-backend/internal/logger"
	"github.com/shoplens/shoplens-backend/internal/repos"
	"github.com/shoplens/shoplens-backend/internal/types"
)

// InsightService regenerates and serves per-dataset insights. Regeneration
// is wholesale: the new batch is written under the dataset's current
// fingerprint and everything older is deactivated in the same transaction.
type InsightService interface {
	Generate(ctx context.Context, datasetID uuid.UUID) ([]*types.Insight, error)
	List(ctx context.Context, datasetID uuid.UUID, filter repos.InsightFilter) ([]*types.Insight, error)
}

type insightService struct {
	db        *gorm.DB
	datasets  DatasetService
	analytics AnalyticsService
	insights  repos.InsightRepo
	engine    *insights.Engine
	log       *logger.Logger
}

func NewInsightService(
	db *gorm.DB,
	datasets DatasetService,
	analyticsSvc AnalyticsService,
	insightRepo repos.InsightRepo,
	engine *insights.Engine,
	log *logger.Logger,
) InsightService {
	return &insightService{
		db:        db,
		datasets:  datasets,
		analytics: analyticsSvc,
		insights:  insightRepo,
		engine:    engine,
		log:       log.With("service", "InsightService"),
	}
}

func (s *insightService) Generate(ctx context.Context, datasetID uuid.UUID) ([]*types.Insight, error) {
	snap, ds, err := s.datasets.Snapshot(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	in, err := s.loadInputs(ctx, datasetID, snap)
	if err != nil {
		return nil, err
	}

	candidates := s.engine.Evaluate(in)

	now := time.Now().UTC()
	rows := make([]*types.Insight, 0, len(candidates))
	for i, c := range candidates {
		metrics, mErr := json.Marshal(c.SupportingMetrics)
		if mErr != nil {
			s.log.Warn("Dropping insight with unencodable metrics", "insight_id", c.InsightID, "error", mErr)
			continue
		}
		rows = append(rows, &types.Insight{
			ID:                uuid.New(),
			DatasetID:         datasetID,
			InsightID:         c.InsightID,
			Fingerprint:       ds.Fingerprint,
			Title:             c.Title,
			Category:          c.Category,
			Confidence:        c.Confidence,
			SupportingMetrics: string(metrics),
			RecommendedAction: c.RecommendedAction,
			Position:          i,
			IsActive:          true,
			GeneratedAt:       now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insights.DeactivateStale(ctx, tx, datasetID, ds.Fingerprint); err != nil {
			return err
		}
		// Re-running over an unchanged fingerprint replaces that batch too.
		if err := s.deleteForFingerprint(ctx, tx, datasetID, ds.Fingerprint); err != nil {
			return err
		}
		_, err := s.insights.Create(ctx, tx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Insights regenerated",
		"dataset_id", datasetID,
		"fingerprint", ds.Fingerprint,
		"count", len(rows),
	)
	return rows, nil
}

func (s *insightService) deleteForFingerprint(ctx context.Context, tx *gorm.DB, datasetID uuid.UUID, fp string) error {
	return tx.WithContext(ctx).
		Where("dataset_id = ? AND fingerprint = ?", datasetID, fp).
		Delete(&types.Insight{}).Error
}

func (s *insightService) List(ctx context.Context, datasetID uuid.UUID, filter repos.InsightFilter) ([]*types.Insight, error) {
	if _, err := s.datasets.Get(ctx, datasetID); err != nil {
		return nil, err
	}
	return s.insights.List(ctx, nil, datasetID, filter)
}

// loadInputs gathers the analytics the rules read. The five loads are
// independent, so they run concurrently; each one still goes through the
// cache individually.
func (s *insightService) loadInputs(ctx context.Context, datasetID uuid.UUID, snap analytics.Snapshot) (insights.Inputs, error) {
	var in insights.Inputs

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.analytics.BestSellers(gctx, datasetID, analytics.BestSellerParams{Limit: 10, SortBy: "quantity"})
		in.BestSellers = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.analytics.DeadStock(gctx, datasetID)
		in.DeadStock = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.analytics.Seasonality(gctx, datasetID)
		in.Seasonal = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.analytics.Profitability(gctx, datasetID)
		in.Profitability = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.analytics.InventoryVelocity(gctx, datasetID)
		in.Velocity = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return insights.Inputs{}, err
	}

	if latest, ok := snap.LatestSaleDate(); ok {
		in.LatestMonth = latest.Month()
	}
	in.Completeness = insights.Completeness(snap)
	return in, nil
}
