package analytics

import (
	"sort"
)

// BestSellers aggregates quantity and revenue per product and ranks the top
// products by the requested metric. Ties break on product identifier
// ascending so repeated runs over the same snapshot are byte-identical.
func BestSellers(snap Snapshot, params BestSellerParams) []BestSellerRow {
	type agg struct {
		row BestSellerRow
		key string
	}
	byProduct := map[string]*agg{}
	for _, s := range snap.Sales {
		if params.Period != "" && monthKey(s.Date) != params.Period {
			continue
		}
		key := productKey(s.ProductID, s.ProductName)
		a, ok := byProduct[key]
		if !ok {
			a = &agg{
				key: key,
				row: BestSellerRow{
					ProductName: s.ProductName,
					ProductID:   s.ProductID,
					Category:    s.Category,
				},
			}
			byProduct[key] = a
		}
		a.row.TotalQuantity += s.Quantity
		a.row.TotalRevenue += s.TotalAmount
	}

	aggs := make([]*agg, 0, len(byProduct))
	for _, a := range byProduct {
		aggs = append(aggs, a)
	}

	metric := func(a *agg) float64 {
		if params.SortBy == "revenue" {
			return a.row.TotalRevenue
		}
		return a.row.TotalQuantity
	}
	sort.Slice(aggs, func(i, j int) bool {
		mi, mj := metric(aggs[i]), metric(aggs[j])
		if mi != mj {
			return mi > mj
		}
		return aggs[i].key < aggs[j].key
	})

	limit := params.Limit
	if limit <= 0 || limit > len(aggs) {
		limit = len(aggs)
	}

	out := make([]BestSellerRow, 0, limit)
	for i := 0; i < limit; i++ {
		row := aggs[i].row
		row.Rank = i + 1
		out = append(out, row)
	}
	return out
}
