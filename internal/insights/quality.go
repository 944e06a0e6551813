package insights

import (
	"github.com/shoplens/shoplens-backend/internal/analytics"
)

// Completeness measures the share of populated critical fields (product
// name, quantity, amount) across the sales snapshot. An empty snapshot
// scores zero, which pulls every derived insight's confidence down rather
// than failing the evaluation.
func Completeness(snap analytics.Snapshot) float64 {
	if len(snap.Sales) == 0 {
		return 0
	}
	total := len(snap.Sales) * 3
	missing := 0
	for _, s := range snap.Sales {
		if s.ProductName == "" {
			missing++
		}
		if s.Quantity == 0 {
			missing++
		}
		if s.TotalAmount == 0 {
			missing++
		}
	}
	return 1 - float64(missing)/float64(total)
}
