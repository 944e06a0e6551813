package analytics

import (
	"sort"
)

// InventoryVelocity computes per-product turnover: quantity sold in the
// snapshot period divided by the average stock level from inventory records.
// Products without inventory data are excluded rather than defaulted to
// zero-stock, and a zero average stock level excludes the product too (the
// division is undefined, not infinite velocity).
func InventoryVelocity(snap Snapshot, params VelocityParams) []VelocityRow {
	type stockAgg struct {
		total float64
		count int
	}
	stockByProduct := map[string]*stockAgg{}
	for _, inv := range snap.Inventory {
		key := productKey(inv.ProductID, inv.ProductName)
		a, ok := stockByProduct[key]
		if !ok {
			a = &stockAgg{}
			stockByProduct[key] = a
		}
		a.total += inv.CurrentStock
		a.count++
	}

	type saleAgg struct {
		name, id, category string
		quantity           float64
	}
	soldByProduct := map[string]*saleAgg{}
	for _, s := range snap.Sales {
		key := productKey(s.ProductID, s.ProductName)
		a, ok := soldByProduct[key]
		if !ok {
			a = &saleAgg{name: s.ProductName, id: s.ProductID, category: s.Category}
			soldByProduct[key] = a
		}
		a.quantity += s.Quantity
	}

	keys := make([]string, 0, len(soldByProduct))
	for key := range soldByProduct {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := []VelocityRow{}
	for _, key := range keys {
		sold := soldByProduct[key]
		stock, ok := stockByProduct[key]
		if !ok {
			continue
		}
		avgStock := stock.total / float64(stock.count)
		if avgStock == 0 {
			continue
		}
		rate := sold.quantity / avgStock
		out = append(out, VelocityRow{
			ProductName:   sold.name,
			ProductID:     sold.id,
			Category:      sold.category,
			TurnoverRate:  rate,
			VelocityScore: bucketVelocity(rate, params),
			AvgStockLevel: avgStock,
			TotalQuantity: sold.quantity,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TurnoverRate > out[j].TurnoverRate })
	return out
}

func bucketVelocity(rate float64, params VelocityParams) string {
	switch {
	case rate >= params.HighThreshold:
		return "high"
	case rate < params.LowThreshold:
		return "low"
	default:
		return "medium"
	}
}
