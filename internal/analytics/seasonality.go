package analytics

import (
	"math"
	"sort"
)

const (
	// seasonalityMinMonths is the minimum distinct calendar months a product
	// needs before it can be scored at all.
	seasonalityMinMonths = 6
	// seasonalityCVScale normalizes the coefficient of variation to [0,1]:
	// a CV of 0.5 or more clamps to a score of exactly 1.
	seasonalityCVScale = 0.5
)

// Seasonality scores how unevenly a product sells across calendar months.
// Products with fewer than six distinct months of data are excluded, not
// scored as zero. Peak months are the two highest-volume months, ties broken
// by calendar month ascending.
func Seasonality(snap Snapshot, minScore float64) []SeasonalityRow {
	type product struct {
		name, id, category string
		key                string
		monthly            map[int]float64 // calendar month (1-12) -> quantity
	}
	byProduct := map[string]*product{}
	for _, s := range snap.Sales {
		key := productKey(s.ProductID, s.ProductName)
		p, ok := byProduct[key]
		if !ok {
			p = &product{name: s.ProductName, id: s.ProductID, category: s.Category, key: key, monthly: map[int]float64{}}
			byProduct[key] = p
		}
		p.monthly[int(s.Date.Month())] += s.Quantity
	}

	keyed := make([]*product, 0, len(byProduct))
	for _, p := range byProduct {
		keyed = append(keyed, p)
	}
	sort.Slice(keyed, func(i, j int) bool { return keyed[i].key < keyed[j].key })

	out := []SeasonalityRow{}
	for _, p := range keyed {
		if len(p.monthly) < seasonalityMinMonths {
			continue
		}

		quantities := make([]float64, 0, len(p.monthly))
		for _, q := range p.monthly {
			quantities = append(quantities, q)
		}
		mean := meanOf(quantities)
		if mean == 0 {
			continue
		}
		cv := sampleStdDev(quantities, mean) / mean
		score := math.Min(cv/seasonalityCVScale, 1.0)
		if score < minScore {
			continue
		}

		out = append(out, SeasonalityRow{
			ProductName: p.name,
			ProductID:   p.id,
			Category:    p.category,
			Score:       score,
			PeakMonths:  peakMonths(p.monthly, 2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func peakMonths(monthly map[int]float64, n int) []int {
	months := make([]int, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		qi, qj := monthly[months[i]], monthly[months[j]]
		if qi != qj {
			return qi > qj
		}
		return months[i] < months[j]
	})
	if n > len(months) {
		n = len(months)
	}
	peaks := append([]int{}, months[:n]...)
	sort.Ints(peaks)
	return peaks
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStdDev uses the n-1 denominator, matching how the monthly spread was
// historically measured.
func sampleStdDev(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}
