package analytics

import (
	"sort"
)

// RevenueContribution computes each product's share of total revenue.
// Percentages are left unrounded so contributions over the full product set
// sum to 100 within floating-point tolerance; presentation rounding belongs
// to the caller. A zero-revenue snapshot yields an empty result, not a
// division error.
func RevenueContribution(snap Snapshot, limit int) []ContributionRow {
	total := snap.TotalRevenue()
	if total == 0 {
		return []ContributionRow{}
	}

	type agg struct {
		row ContributionRow
		key string
	}
	byProduct := map[string]*agg{}
	for _, s := range snap.Sales {
		key := productKey(s.ProductID, s.ProductName)
		a, ok := byProduct[key]
		if !ok {
			a = &agg{
				key: key,
				row: ContributionRow{
					ProductName: s.ProductName,
					ProductID:   s.ProductID,
					Category:    s.Category,
				},
			}
			byProduct[key] = a
		}
		a.row.Revenue += s.TotalAmount
	}

	aggs := make([]*agg, 0, len(byProduct))
	for _, a := range byProduct {
		a.row.Percentage = a.row.Revenue / total * 100
		aggs = append(aggs, a)
	}
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].row.Revenue != aggs[j].row.Revenue {
			return aggs[i].row.Revenue > aggs[j].row.Revenue
		}
		return aggs[i].key < aggs[j].key
	})

	if limit <= 0 || limit > len(aggs) {
		limit = len(aggs)
	}
	out := make([]ContributionRow, 0, limit)
	for i := 0; i < limit; i++ {
		row := aggs[i].row
		row.Rank = i + 1
		out = append(out, row)
	}
	return out
}
