package analytics

import (
	"sort"
	"time"
)

const forecastMinDays = 7

// Forecast predicts per-product daily quantity and revenue for the next
// daysAhead days using a 7-day moving average with a damped linear trend.
// Confidence derives from the coefficient of variation of recent demand.
// Fewer than seven distinct sale days yields an empty forecast.
func Forecast(snap Snapshot, daysAhead int, productID string) []ForecastRow {
	if daysAhead <= 0 {
		return []ForecastRow{}
	}

	type daily struct {
		date     time.Time
		quantity float64
		revenue  float64
	}
	type product struct {
		name, id string
		key      string
		byDay    map[string]*daily
	}
	byProduct := map[string]*product{}
	distinctDays := map[string]struct{}{}
	for _, s := range snap.Sales {
		key := productKey(s.ProductID, s.ProductName)
		if productID != "" && key != productID {
			continue
		}
		p, ok := byProduct[key]
		if !ok {
			p = &product{name: s.ProductName, id: s.ProductID, key: key, byDay: map[string]*daily{}}
			byProduct[key] = p
		}
		dk := s.Date.Format("2006-01-02")
		distinctDays[dk] = struct{}{}
		d, ok := p.byDay[dk]
		if !ok {
			d = &daily{date: s.Date}
			p.byDay[dk] = d
		}
		d.quantity += s.Quantity
		d.revenue += s.TotalAmount
	}
	if len(distinctDays) < forecastMinDays {
		return []ForecastRow{}
	}

	keys := make([]string, 0, len(byProduct))
	for key := range byProduct {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := []ForecastRow{}
	for _, key := range keys {
		p := byProduct[key]
		series := make([]*daily, 0, len(p.byDay))
		for _, d := range p.byDay {
			series = append(series, d)
		}
		sort.Slice(series, func(i, j int) bool { return series[i].date.Before(series[j].date) })
		if len(series) < 3 {
			continue
		}

		window := series
		if len(window) > 7 {
			window = window[len(window)-7:]
		}
		quantities := make([]float64, len(window))
		var revenueSum, quantitySum float64
		for i, d := range window {
			quantities[i] = d.quantity
			revenueSum += d.revenue
			quantitySum += d.quantity
		}
		base := meanOf(quantities)
		slope := linearSlope(quantities)

		avgPrice := 0.0
		if quantitySum > 0 {
			avgPrice = revenueSum / quantitySum
		}

		confidence := "medium"
		if base > 0 {
			cv := sampleStdDev(quantities, base) / base
			switch {
			case cv < 0.3:
				confidence = "high"
			case cv > 0.7:
				confidence = "low"
			}
		}

		lastDate := series[len(series)-1].date
		for i := 1; i <= daysAhead; i++ {
			// The trend term is damped so a short-lived spike does not
			// compound over the horizon.
			predicted := base + slope*(1-0.1*float64(i))
			if predicted < 0 {
				predicted = 0
			}
			out = append(out, ForecastRow{
				Date:              lastDate.AddDate(0, 0, i).Format("2006-01-02"),
				ProductName:       p.name,
				ProductID:         p.id,
				PredictedQuantity: predicted,
				PredictedRevenue:  predicted * avgPrice,
				Confidence:        confidence,
			})
		}
	}
	return out
}

func linearSlope(vals []float64) float64 {
	n := float64(len(vals))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range vals {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
