package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/shoplens/shoplens-backend/internal/analytics"
)

// A Rule inspects the computed analytics and emits zero or more candidates.
// Rules are pure: every observation a rule makes comes from Inputs, never
// from the clock or from outside state.
type Rule struct {
	Name string
	Eval func(in Inputs) []Candidate
}

// DefaultRules returns the fixed, ordered rule set. Order matters twice:
// when two rules emit the same insight id the earlier registration wins,
// and within a confidence tier insights keep generation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "dead_stock", Eval: evalDeadStock},
		{Name: "seasonal_peak", Eval: evalSeasonalPeak},
		{Name: "restock_opportunity", Eval: evalRestockOpportunity},
		{Name: "low_margin", Eval: evalLowMargin},
		{Name: "high_profit_opportunity", Eval: evalHighProfitOpportunity},
		{Name: "profit_concentration", Eval: evalProfitConcentration},
	}
}

const (
	seasonalRuleMinScore = 0.3
	lowMarginThreshold   = 10.0
	highMarginThreshold  = 20.0
)

func subject(id, name string) string {
	if id != "" {
		return id
	}
	return name
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func evalDeadStock(in Inputs) []Candidate {
	out := make([]Candidate, 0, len(in.DeadStock))
	for _, row := range in.DeadStock {
		out = append(out, Candidate{
			InsightID: "dead_stock_" + subject(row.ProductID, row.ProductName),
			Title:     fmt.Sprintf("%s has not sold in %d days", row.ProductName, row.DaysSinceSale),
			Category:  CategoryRisk,
			SupportingMetrics: map[string]float64{
				"days_since_last_sale": float64(row.DaysSinceSale),
				"current_stock":        row.CurrentStock,
				"estimated_value":      row.EstimatedValue,
			},
			RecommendedAction: fmt.Sprintf(
				"Consider discounting or bundling %s to recover the %.2f tied up in %.0f units of unsold stock.",
				row.ProductName, row.EstimatedValue, row.CurrentStock),
			MatchStrength: minf(float64(row.DaysSinceSale)/180, 1),
			Significance:  minf(row.EstimatedValue/10000, 1),
		})
	}
	return out
}

func evalSeasonalPeak(in Inputs) []Candidate {
	var out []Candidate
	for _, row := range in.Seasonal {
		if row.Score < seasonalRuleMinScore || len(row.PeakMonths) == 0 {
			continue
		}
		nearest := 0
		best := 13
		for _, m := range row.PeakMonths {
			if d := monthsUntil(in.LatestMonth, time.Month(m)); d < best {
				best = d
				nearest = m
			}
		}
		// Only worth surfacing when the peak is near enough to act on.
		if best > 2 {
			continue
		}
		sig := 0.6
		if best == 1 {
			sig = 0.8
		}
		peak := time.Month(nearest)
		out = append(out, Candidate{
			InsightID: "seasonal_peak_" + subject(row.ProductID, row.ProductName),
			Title:     fmt.Sprintf("%s sales peak in %s", row.ProductName, peak),
			Category:  CategoryGrowth,
			SupportingMetrics: map[string]float64{
				"seasonality_score": row.Score,
				"months_until_peak": float64(best),
				"peak_month":        float64(nearest),
			},
			RecommendedAction: fmt.Sprintf("Build up %s inventory ahead of its %s peak.", row.ProductName, peak),
			MatchStrength:     row.Score,
			Significance:      sig,
		})
	}
	return out
}

// monthsUntil counts calendar months forward from current to peak, wrapping
// across the year boundary. A peak in the current month counts as a full
// year away.
func monthsUntil(current, peak time.Month) int {
	d := int(peak) - int(current)
	if d <= 0 {
		d += 12
	}
	return d
}

func evalRestockOpportunity(in Inputs) []Candidate {
	vel := make(map[string]analytics.VelocityRow, len(in.Velocity))
	for _, v := range in.Velocity {
		vel[subject(v.ProductID, v.ProductName)] = v
	}
	var out []Candidate
	for i, bs := range in.BestSellers {
		if i >= 10 {
			break
		}
		v, ok := vel[subject(bs.ProductID, bs.ProductName)]
		if !ok || v.AvgStockLevel >= 0.1*v.TotalQuantity {
			continue
		}
		out = append(out, Candidate{
			InsightID: "restock_opportunity_" + subject(bs.ProductID, bs.ProductName),
			Title:     fmt.Sprintf("%s is a top seller running low on stock", bs.ProductName),
			Category:  CategoryGrowth,
			SupportingMetrics: map[string]float64{
				"total_quantity_sold": v.TotalQuantity,
				"avg_stock_level":     v.AvgStockLevel,
				"turnover_rate":       v.TurnoverRate,
			},
			RecommendedAction: fmt.Sprintf(
				"Restock %s: it sold %.0f units against an average stock of %.0f.",
				bs.ProductName, v.TotalQuantity, v.AvgStockLevel),
			MatchStrength: 0.9,
			Significance:  minf(v.TotalQuantity/100, 1),
		})
	}
	return out
}

func evalLowMargin(in Inputs) []Candidate {
	var out []Candidate
	for _, row := range in.Profitability {
		if row.ProfitMargin == nil {
			continue
		}
		margin := *row.ProfitMargin
		if margin >= lowMarginThreshold || row.Revenue <= 10000 {
			continue
		}
		out = append(out, Candidate{
			InsightID: "low_margin_" + subject(row.ProductID, row.ProductName),
			Title:     fmt.Sprintf("%s earns a thin %.1f%% margin on high volume", row.ProductName, margin),
			Category:  CategoryEfficiency,
			SupportingMetrics: map[string]float64{
				"profit_margin": margin,
				"revenue":       row.Revenue,
				"profit":        row.Profit,
			},
			RecommendedAction: fmt.Sprintf(
				"Review pricing or sourcing for %s; %.2f in revenue yields only a %.1f%% margin.",
				row.ProductName, row.Revenue, margin),
			MatchStrength: 0.7,
			Significance:  minf(row.Revenue/50000, 1),
		})
	}
	return out
}

func evalHighProfitOpportunity(in Inputs) []Candidate {
	top := make(map[string]struct{}, 10)
	for i, bs := range in.BestSellers {
		if i >= 10 {
			break
		}
		top[subject(bs.ProductID, bs.ProductName)] = struct{}{}
	}
	var out []Candidate
	for _, row := range in.Profitability {
		if row.ProfitMargin == nil {
			continue
		}
		margin := *row.ProfitMargin
		if margin <= highMarginThreshold || row.Revenue <= 5000 {
			continue
		}
		if _, isTop := top[subject(row.ProductID, row.ProductName)]; isTop {
			continue
		}
		out = append(out, Candidate{
			InsightID: "high_profit_opportunity_" + subject(row.ProductID, row.ProductName),
			Title:     fmt.Sprintf("%s is highly profitable but under-promoted", row.ProductName),
			Category:  CategoryGrowth,
			SupportingMetrics: map[string]float64{
				"profit_margin": margin,
				"revenue":       row.Revenue,
				"profit":        row.Profit,
			},
			RecommendedAction: fmt.Sprintf(
				"Promote %s: a %.1f%% margin on %.2f revenue leaves headroom to grow volume.",
				row.ProductName, margin, row.Revenue),
			MatchStrength: minf(margin/50, 1),
			Significance:  minf(row.Revenue/30000, 1),
		})
	}
	return out
}

func evalProfitConcentration(in Inputs) []Candidate {
	if len(in.Profitability) == 0 {
		return nil
	}
	byRevenue := make([]analytics.ProfitabilityRow, len(in.Profitability))
	copy(byRevenue, in.Profitability)
	sort.SliceStable(byRevenue, func(i, j int) bool {
		return byRevenue[i].Revenue > byRevenue[j].Revenue
	})
	if len(byRevenue) > 5 {
		byRevenue = byRevenue[:5]
	}

	lowCount := 0
	var topRevenue float64
	for _, row := range byRevenue {
		topRevenue += row.Revenue
		if row.ProfitMargin != nil && *row.ProfitMargin < lowMarginThreshold {
			lowCount++
		}
	}
	if lowCount < 3 || topRevenue <= 50000 {
		return nil
	}
	return []Candidate{{
		InsightID: "profit_concentration_risk",
		Title:     "Most revenue sits in low-margin products",
		Category:  CategoryEfficiency,
		SupportingMetrics: map[string]float64{
			"low_margin_count": float64(lowCount),
			"top5_revenue":     topRevenue,
		},
		RecommendedAction: fmt.Sprintf(
			"%.0f of your top-5 products earn under %.0f%% margin across %.2f in revenue; diversify or reprice.",
			float64(lowCount), lowMarginThreshold, topRevenue),
		MatchStrength: minf(float64(lowCount)/5, 1),
		Significance:  minf(topRevenue/100000, 1),
	}}
}
