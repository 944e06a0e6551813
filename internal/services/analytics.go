package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shoplens/shoplens-backend/internal/analytics"
	"github.com/shoplens/shoplens-backend/internal/cache"
	"github.com/shoplens/shoplens-backend/internal/config"
	"github.com/shoplens/shoplens-backend/internal/logger"
)

// Cache keys, one per computator. A key plus a parameter signature
// identifies a cache slot within a dataset.
const (
	CacheKeyBestSellers   = "best_sellers"
	CacheKeyContribution  = "revenue_contribution"
	CacheKeySeasonality   = "seasonality"
	CacheKeyVelocity      = "inventory_velocity"
	CacheKeyDeadStock     = "dead_stock"
	CacheKeyProfitability = "profitability"
	CacheKeyTrends        = "trends"
	CacheKeyDailySales    = "daily_sales"
	CacheKeyForecast      = "forecast"
)

// AnalyticsService runs the computators through the fingerprint-validated
// cache. Every method is read-only with respect to the dataset; results are
// deterministic for a given fingerprint and parameter set.
type AnalyticsService interface {
	BestSellers(ctx context.Context, datasetID uuid.UUID, params analytics.BestSellerParams) ([]analytics.BestSellerRow, error)
	RevenueContribution(ctx context.Context, datasetID uuid.UUID, limit int) ([]analytics.ContributionRow, error)
	Seasonality(ctx context.Context, datasetID uuid.UUID) ([]analytics.SeasonalityRow, error)
	InventoryVelocity(ctx context.Context, datasetID uuid.UUID) ([]analytics.VelocityRow, error)
	DeadStock(ctx context.Context, datasetID uuid.UUID) ([]analytics.DeadStockRow, error)
	Profitability(ctx context.Context, datasetID uuid.UUID) ([]analytics.ProfitabilityRow, error)
	Trends(ctx context.Context, datasetID uuid.UUID, params analytics.TrendParams) ([]analytics.TrendRow, error)
	DailySales(ctx context.Context, datasetID uuid.UUID, year int, month time.Month) ([]analytics.DailySaleRow, error)
	Forecast(ctx context.Context, datasetID uuid.UUID, daysAhead int, productID string) ([]analytics.ForecastRow, error)
	// ForceRecompute drops every cache entry for the dataset regardless of
	// fingerprint; the next access recomputes.
	ForceRecompute(ctx context.Context, datasetID uuid.UUID) error
}

type analyticsService struct {
	datasets DatasetService
	cache    *cache.Manager
	cfg      config.Analytics
	log      *logger.Logger
}

func NewAnalyticsService(datasets DatasetService, cacheMgr *cache.Manager, cfg config.Analytics, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		datasets: datasets,
		cache:    cacheMgr,
		cfg:      cfg,
		log:      log.With("service", "AnalyticsService"),
	}
}

// paramSig is the canonical parameter signature: JSON with struct-ordered
// fields, so equal parameters always produce equal signatures.
func paramSig(params any) string {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%+v", params)
	}
	return string(raw)
}

// compute runs one computator through the cache and decodes the blob into
// out, which must be a pointer to the result slice.
func (s *analyticsService) compute(
	ctx context.Context,
	datasetID uuid.UUID,
	cacheKey, sig string,
	out any,
	fn func(snap analytics.Snapshot) (any, error),
) error {
	snap, ds, err := s.datasets.Snapshot(ctx, datasetID)
	if err != nil {
		return err
	}

	blob, hit, err := s.cache.GetOrCompute(ctx, datasetID.String(), cacheKey, sig, ds.Fingerprint, func(ctx context.Context) ([]byte, error) {
		result, err := fn(snap)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return err
	}
	if hit {
		s.log.Debug("Analytics cache hit", "dataset_id", datasetID, "cache_key", cacheKey)
	}
	return json.Unmarshal(blob, out)
}

func (s *analyticsService) BestSellers(ctx context.Context, datasetID uuid.UUID, params analytics.BestSellerParams) ([]analytics.BestSellerRow, error) {
	if params.Limit <= 0 {
		params.Limit = 10
	}
	if params.SortBy == "" {
		params.SortBy = "quantity"
	}
	out := []analytics.BestSellerRow{}
	err := s.compute(ctx, datasetID, CacheKeyBestSellers, paramSig(params), &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.BestSellers(snap, params), nil
	})
	return out, err
}

func (s *analyticsService) RevenueContribution(ctx context.Context, datasetID uuid.UUID, limit int) ([]analytics.ContributionRow, error) {
	out := []analytics.ContributionRow{}
	sig := paramSig(map[string]int{"limit": limit})
	err := s.compute(ctx, datasetID, CacheKeyContribution, sig, &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.RevenueContribution(snap, limit), nil
	})
	return out, err
}

func (s *analyticsService) Seasonality(ctx context.Context, datasetID uuid.UUID) ([]analytics.SeasonalityRow, error) {
	out := []analytics.SeasonalityRow{}
	sig := paramSig(map[string]float64{"min_score": s.cfg.MinSeasonalityScore})
	err := s.compute(ctx, datasetID, CacheKeySeasonality, sig, &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.Seasonality(snap, s.cfg.MinSeasonalityScore), nil
	})
	return out, err
}

func (s *analyticsService) InventoryVelocity(ctx context.Context, datasetID uuid.UUID) ([]analytics.VelocityRow, error) {
	params := analytics.VelocityParams{
		HighThreshold: s.cfg.VelocityHighThreshold,
		LowThreshold:  s.cfg.VelocityLowThreshold,
	}
	out := []analytics.VelocityRow{}
	err := s.compute(ctx, datasetID, CacheKeyVelocity, paramSig(params), &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.InventoryVelocity(snap, params), nil
	})
	return out, err
}

func (s *analyticsService) DeadStock(ctx context.Context, datasetID uuid.UUID) ([]analytics.DeadStockRow, error) {
	out := []analytics.DeadStockRow{}
	sig := paramSig(map[string]int{"days": s.cfg.DeadStockDays})
	err := s.compute(ctx, datasetID, CacheKeyDeadStock, sig, &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.DeadStock(snap, s.cfg.DeadStockDays), nil
	})
	return out, err
}

func (s *analyticsService) Profitability(ctx context.Context, datasetID uuid.UUID) ([]analytics.ProfitabilityRow, error) {
	out := []analytics.ProfitabilityRow{}
	err := s.compute(ctx, datasetID, CacheKeyProfitability, "{}", &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.Profitability(snap), nil
	})
	return out, err
}

func (s *analyticsService) Trends(ctx context.Context, datasetID uuid.UUID, params analytics.TrendParams) ([]analytics.TrendRow, error) {
	if params.Metric == "" {
		params.Metric = "revenue"
	}
	if params.Months <= 0 {
		params.Months = 12
	}
	if params.StabilityBandPct <= 0 {
		params.StabilityBandPct = s.cfg.TrendStabilityBandPct
	}
	out := []analytics.TrendRow{}
	err := s.compute(ctx, datasetID, CacheKeyTrends, paramSig(params), &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.Trends(snap, params), nil
	})
	return out, err
}

func (s *analyticsService) DailySales(ctx context.Context, datasetID uuid.UUID, year int, month time.Month) ([]analytics.DailySaleRow, error) {
	out := []analytics.DailySaleRow{}
	sig := paramSig(map[string]int{"year": year, "month": int(month)})
	err := s.compute(ctx, datasetID, CacheKeyDailySales, sig, &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.DailySales(snap, year, month), nil
	})
	return out, err
}

func (s *analyticsService) Forecast(ctx context.Context, datasetID uuid.UUID, daysAhead int, productID string) ([]analytics.ForecastRow, error) {
	if daysAhead <= 0 {
		daysAhead = 7
	}
	out := []analytics.ForecastRow{}
	sig := paramSig(map[string]any{"days": daysAhead, "product_id": productID})
	err := s.compute(ctx, datasetID, CacheKeyForecast, sig, &out, func(snap analytics.Snapshot) (any, error) {
		return analytics.Forecast(snap, daysAhead, productID), nil
	})
	return out, err
}

func (s *analyticsService) ForceRecompute(ctx context.Context, datasetID uuid.UUID) error {
	if err := s.cache.InvalidateDataset(ctx, datasetID.String()); err != nil {
		return err
	}
	s.log.Info("Cache invalidated", "dataset_id", datasetID)
	return nil
}
