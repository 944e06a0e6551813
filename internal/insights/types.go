// Package insights evaluates a fixed set of rules against computed analytics
// and tiers each finding by evidence strength.
package insights

import (
	"time"

	"github.com/shoplens/shoplens-backend/internal/analytics"
)

const (
	CategoryGrowth     = "growth"
	CategoryRisk       = "risk"
	CategoryEfficiency = "efficiency"

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Candidate is one potential insight emitted by a rule. The insight id is a
// deterministic function of rule and subject, so regenerating over the same
// analytics yields the same ids. The recommended action is built only from
// values present in SupportingMetrics.
type Candidate struct {
	InsightID         string             `json:"insight_id"`
	Title             string             `json:"title"`
	Category          string             `json:"category"`
	SupportingMetrics map[string]float64 `json:"supporting_metrics"`
	RecommendedAction string             `json:"recommended_action"`
	Confidence        string             `json:"confidence"`

	// Rule-evaluation evidence, both normalized to [0,1].
	MatchStrength float64 `json:"-"`
	Significance  float64 `json:"-"`
}

// Inputs is the analytics snapshot a rule evaluation runs against. The
// latest month comes from the dataset's newest sale date, not wall clock,
// so rule output is reproducible for a static dataset.
type Inputs struct {
	BestSellers   []analytics.BestSellerRow
	DeadStock     []analytics.DeadStockRow
	Seasonal      []analytics.SeasonalityRow
	Profitability []analytics.ProfitabilityRow
	Velocity      []analytics.VelocityRow

	LatestMonth  time.Month
	Completeness float64
}
