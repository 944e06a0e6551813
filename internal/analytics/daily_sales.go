package analytics

import (
	"time"
)

// DailySales produces a complete daily revenue series for one calendar
// month. Days without sales appear as zero rows so charts get a contiguous
// axis.
func DailySales(snap Snapshot, year int, month time.Month) []DailySaleRow {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	days := int(end.Sub(start).Hours() / 24)

	revenueByDay := make([]float64, days+1)
	quantityByDay := make([]float64, days+1)
	for _, s := range snap.Sales {
		if s.Date.Before(start) || !s.Date.Before(end) {
			continue
		}
		d := s.Date.Day()
		revenueByDay[d] += s.TotalAmount
		quantityByDay[d] += s.Quantity
	}

	out := make([]DailySaleRow, 0, days)
	for d := 1; d <= days; d++ {
		out = append(out, DailySaleRow{
			Day:      d,
			Date:     time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Revenue:  revenueByDay[d],
			Quantity: quantityByDay[d],
		})
	}
	return out
}
