package analytics

import (
	"sort"
)

// DeadStock flags products that still hold stock but have not sold for
// strictly more than daysThreshold days. Days are measured from the latest
// date present in the dataset, not wall clock, so a static dataset keeps
// producing the same rows.
func DeadStock(snap Snapshot, daysThreshold int) []DeadStockRow {
	reference, ok := snap.LatestSaleDate()
	if !ok {
		return []DeadStockRow{}
	}

	lastByProduct := map[string]SaleRow{}
	for _, s := range snap.Sales {
		key := productKey(s.ProductID, s.ProductName)
		prev, seen := lastByProduct[key]
		if !seen || s.Date.After(prev.Date) {
			lastByProduct[key] = s
		}
	}

	invByProduct := map[string]InventoryRow{}
	for _, inv := range snap.Inventory {
		key := productKey(inv.ProductID, inv.ProductName)
		if _, seen := invByProduct[key]; !seen {
			invByProduct[key] = inv
		}
	}

	keys := make([]string, 0, len(lastByProduct))
	for key := range lastByProduct {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := []DeadStockRow{}
	for _, key := range keys {
		sale := lastByProduct[key]
		inv, hasInv := invByProduct[key]
		if !hasInv || inv.CurrentStock <= 0 {
			continue
		}
		days := int(reference.Sub(sale.Date).Hours() / 24)
		if days <= daysThreshold {
			continue
		}
		out = append(out, DeadStockRow{
			ProductName:    sale.ProductName,
			ProductID:      sale.ProductID,
			Category:       sale.Category,
			LastSaleDate:   sale.Date,
			DaysSinceSale:  days,
			CurrentStock:   inv.CurrentStock,
			UnitCost:       inv.UnitCost,
			EstimatedValue: inv.CurrentStock * inv.UnitCost,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysSinceSale > out[j].DaysSinceSale })
	return out
}
