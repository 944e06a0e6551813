package analytics

import (
	"sort"
)

// Profitability ranks products by profit margin. Cost data comes from the
// matching inventory record; products without one are excluded rather than
// treated as zero-cost. Margin is nil when revenue is zero.
func Profitability(snap Snapshot) []ProfitabilityRow {
	costByProduct := map[string]float64{}
	for _, inv := range snap.Inventory {
		key := productKey(inv.ProductID, inv.ProductName)
		if _, seen := costByProduct[key]; !seen {
			costByProduct[key] = inv.UnitCost
		}
	}

	type agg struct {
		row      ProfitabilityRow
		key      string
		quantity float64
	}
	byProduct := map[string]*agg{}
	for _, s := range snap.Sales {
		key := productKey(s.ProductID, s.ProductName)
		a, ok := byProduct[key]
		if !ok {
			a = &agg{
				key: key,
				row: ProfitabilityRow{
					ProductName: s.ProductName,
					ProductID:   s.ProductID,
					Category:    s.Category,
				},
			}
			byProduct[key] = a
		}
		a.row.Revenue += s.TotalAmount
		a.quantity += s.Quantity
	}

	aggs := make([]*agg, 0, len(byProduct))
	for _, a := range byProduct {
		unitCost, hasCost := costByProduct[a.key]
		if !hasCost {
			continue
		}
		a.row.Cost = a.quantity * unitCost
		a.row.Profit = a.row.Revenue - a.row.Cost
		if a.row.Revenue > 0 {
			margin := a.row.Profit / a.row.Revenue * 100
			a.row.ProfitMargin = &margin
		}
		aggs = append(aggs, a)
	}

	sort.Slice(aggs, func(i, j int) bool {
		mi, mj := marginOrNegInf(aggs[i].row), marginOrNegInf(aggs[j].row)
		if mi != mj {
			return mi > mj
		}
		return aggs[i].key < aggs[j].key
	})

	out := make([]ProfitabilityRow, 0, len(aggs))
	for i, a := range aggs {
		row := a.row
		row.Rank = i + 1
		out = append(out, row)
	}
	return out
}

func marginOrNegInf(row ProfitabilityRow) float64 {
	if row.ProfitMargin == nil {
		return -1e18
	}
	return *row.ProfitMargin
}
