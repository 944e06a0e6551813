package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/shoplens/shoplens-backend/internal/analytics"
	"github.com/shoplens/shoplens-backend/internal/jobs"
)

// WarmRequests builds background compute requests that prefill the default
// parameterization of every metric for a dataset. Enqueued after ingestion
// so the first dashboard load hits a warm cache. Duplicates with on-demand
// requests are safe; the cache layer coalesces them.
func WarmRequests(svc AnalyticsService, datasetID uuid.UUID) []jobs.ComputeRequest {
	return []jobs.ComputeRequest{
		{DatasetID: datasetID, CacheKey: CacheKeyBestSellers, Run: func(ctx context.Context) error {
			_, err := svc.BestSellers(ctx, datasetID, analytics.BestSellerParams{})
			return err
		}},
		{DatasetID: datasetID, CacheKey: CacheKeyContribution, Run: func(ctx context.Context) error {
			_, err := svc.RevenueContribution(ctx, datasetID, 0)
			return err
		}},
		{DatasetID: datasetID, CacheKey: CacheKeySeasonality, Run: func(ctx context.Context) error {
			_, err := svc.Seasonality(ctx, datasetID)
			return err
		}},
		{DatasetID: datasetID, CacheKey: CacheKeyVelocity, Run: func(ctx context.Context) error {
			_, err := svc.InventoryVelocity(ctx, datasetID)
			return err
		}},
		{DatasetID: datasetID, CacheKey: CacheKeyDeadStock, Run: func(ctx context.Context) error {
			_, err := svc.DeadStock(ctx, datasetID)
			return err
		}},
		{DatasetID: datasetID, CacheKey: CacheKeyProfitability, Run: func(ctx context.Context) error {
			_, err := svc.Profitability(ctx, datasetID)
			return err
		}},
		{DatasetID: datasetID, CacheKey: CacheKeyTrends, Run: func(ctx context.Context) error {
			_, err := svc.Trends(ctx, datasetID, analytics.TrendParams{})
			return err
		}},
	}
}
