// Package explain assembles generation contexts for the explanation
// provider and validates the text it returns. No raw sale or inventory
// record ever enters a context; the generator only sees insight summaries
// and a closed set of dataset aggregates.
package explain

import (
	"sort"

	"github.com/shoplens/shoplens-backend/internal/insights"
)

// InsightSummary is the generator-facing view of one insight.
type InsightSummary struct {
	InsightID         string             `json:"insight_id"`
	Title             string             `json:"title"`
	Category          string             `json:"category"`
	Confidence        string             `json:"confidence"`
	RecommendedAction string             `json:"recommended_action"`
	SupportingMetrics map[string]float64 `json:"supporting_metrics"`
}

// Context is the full prompt payload. AllowedNumbers is the exhaustive set
// of numeric values the generated text may cite: every supporting-metric
// value across the included insights plus the dataset aggregates.
type Context struct {
	DatasetID      string           `json:"dataset_id"`
	TotalRevenue   float64          `json:"total_revenue"`
	RecordCount    int              `json:"record_count"`
	Insights       []InsightSummary `json:"insights"`
	AllowedNumbers []float64        `json:"allowed_numbers"`
}

// BuildContext derives a Context from the dataset's active insights and
// aggregates. The allow-list is sorted and deduplicated so equal contexts
// compare and serialize identically.
func BuildContext(datasetID string, active []insights.Candidate, totalRevenue float64, recordCount int) Context {
	summaries := make([]InsightSummary, 0, len(active))
	for _, c := range active {
		metrics := make(map[string]float64, len(c.SupportingMetrics))
		for k, v := range c.SupportingMetrics {
			metrics[k] = v
		}
		summaries = append(summaries, InsightSummary{
			InsightID:         c.InsightID,
			Title:             c.Title,
			Category:          c.Category,
			Confidence:        c.Confidence,
			RecommendedAction: c.RecommendedAction,
			SupportingMetrics: metrics,
		})
	}
	return BuildFromSummaries(datasetID, summaries, totalRevenue, recordCount)
}

// BuildFromSummaries builds a Context from already-summarized insights, as
// read back from storage.
func BuildFromSummaries(datasetID string, summaries []InsightSummary, totalRevenue float64, recordCount int) Context {
	allowed := map[float64]struct{}{
		totalRevenue:         {},
		float64(recordCount): {},
	}
	for _, s := range summaries {
		for _, v := range s.SupportingMetrics {
			allowed[v] = struct{}{}
		}
	}

	nums := make([]float64, 0, len(allowed))
	for v := range allowed {
		nums = append(nums, v)
	}
	sort.Float64s(nums)

	return Context{
		DatasetID:      datasetID,
		TotalRevenue:   totalRevenue,
		RecordCount:    recordCount,
		Insights:       summaries,
		AllowedNumbers: nums,
	}
}
