package analytics

import (
	"math"
	"sort"
)

// Trends aggregates the chosen metric by calendar month and labels the
// month-over-month movement. A month with no usable previous value gets a nil
// change and the label "new"; otherwise the configurable stability band
// decides between up, down and stable.
func Trends(snap Snapshot, params TrendParams) []TrendRow {
	if len(snap.Sales) == 0 {
		return []TrendRow{}
	}

	byMonth := map[string]float64{}
	for _, s := range snap.Sales {
		v := s.TotalAmount
		if params.Metric == "quantity" {
			v = s.Quantity
		}
		byMonth[monthKey(s.Date)] += v
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months) // YYYY-MM sorts chronologically

	// Keep only the trailing window but compute change against the full
	// series so the window's first month still sees its real predecessor.
	start := 0
	if params.Months > 0 && len(months) > params.Months {
		start = len(months) - params.Months
	}

	out := make([]TrendRow, 0, len(months)-start)
	for i := start; i < len(months); i++ {
		row := TrendRow{Month: months[i], Value: byMonth[months[i]], Trend: "new"}
		if i > 0 {
			prev := byMonth[months[i-1]]
			row.PreviousMonth = months[i-1]
			row.PreviousValue = &prev
			if prev > 0 {
				change := (row.Value - prev) / prev * 100
				row.ChangePercent = &change
				row.Trend = trendLabel(change, params.StabilityBandPct)
			}
		}
		out = append(out, row)
	}
	return out
}

func trendLabel(changePct, bandPct float64) string {
	if math.Abs(changePct) < bandPct {
		return "stable"
	}
	if changePct > 0 {
		return "up"
	}
	return "down"
}
