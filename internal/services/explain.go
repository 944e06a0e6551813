package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/shoplens/shoplens-backend/internal/errs"
	"github.com/shoplens/shoplens-backend/internal/explain"
	"github.com/shoplens/shoplens-backend/internal/logger"
	"github.com/shoplens/shoplens-backend/internal/repos"
)

// ExplainService turns a dataset's active insights into validated prose.
type ExplainService interface {
	ExplainDataset(ctx context.Context, datasetID uuid.UUID) (string, error)
}

type explainService struct {
	datasets  DatasetService
	insights  InsightService
	explainer *explain.Service
	log       *logger.Logger
}

func NewExplainService(datasets DatasetService, insightSvc InsightService, explainer *explain.Service, log *logger.Logger) ExplainService {
	return &explainService{
		datasets:  datasets,
		insights:  insightSvc,
		explainer: explainer,
		log:       log.With("service", "ExplainService"),
	}
}

func (s *explainService) ExplainDataset(ctx context.Context, datasetID uuid.UUID) (string, error) {
	snap, _, err := s.datasets.Snapshot(ctx, datasetID)
	if err != nil {
		return "", err
	}

	rows, err := s.insights.List(ctx, datasetID, repos.InsightFilter{ActiveOnly: true})
	if err != nil {
		return "", err
	}

	summaries := make([]explain.InsightSummary, 0, len(rows))
	for _, r := range rows {
		metrics := map[string]float64{}
		if r.SupportingMetrics != "" {
			if uErr := json.Unmarshal([]byte(r.SupportingMetrics), &metrics); uErr != nil {
				s.log.Warn("Skipping insight with unreadable metrics", "insight_id", r.InsightID, "error", uErr)
				continue
			}
		}
		summaries = append(summaries, explain.InsightSummary{
			InsightID:         r.InsightID,
			Title:             r.Title,
			Category:          r.Category,
			Confidence:        r.Confidence,
			RecommendedAction: r.RecommendedAction,
			SupportingMetrics: metrics,
		})
	}

	if len(summaries) == 0 {
		return "", fmt.Errorf("%w: no active insights to explain", errs.ErrInsufficientData)
	}

	recordCount := len(snap.Sales) + len(snap.Inventory)
	ec := explain.BuildFromSummaries(datasetID.String(), summaries, snap.TotalRevenue(), recordCount)
	return s.explainer.Explain(ctx, ec)
}
