// Package fingerprint derives a stable content hash for a dataset's current
// record set. The hash is insensitive to record ordering and to object
// identity: two logically identical uploads hash identically.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/shoplens/shoplens-backend/internal/types"
)

// Compute hashes a normalized record set. It is total: any well-formed set
// (including the empty one) has a fingerprint; malformed records are rejected
// upstream before reaching this package.
func Compute(sales []types.RawSale, inventory []types.RawInventory) string {
	lines := make([]string, 0, len(sales)+len(inventory))
	for _, s := range sales {
		lines = append(lines, saleLine(s))
	}
	for _, inv := range inventory {
		lines = append(lines, inventoryLine(inv))
	}
	return hashLines(lines)
}

// ComputeStored hashes records already persisted for a dataset. It must agree
// with Compute for the same logical set, so both funnel through the same
// canonical line format.
func ComputeStored(sales []types.SaleRecord, inventory []types.InventoryRecord) string {
	lines := make([]string, 0, len(sales)+len(inventory))
	for _, s := range sales {
		lines = append(lines, saleLine(types.RawSale{
			Date:        s.Date.Format("2006-01-02"),
			ProductName: s.ProductName,
			ProductID:   s.ProductID,
			Quantity:    s.Quantity,
			UnitPrice:   s.UnitPrice,
			TotalAmount: s.TotalAmount,
			Category:    s.Category,
		}))
	}
	for _, inv := range inventory {
		asOf := ""
		if !inv.AsOfDate.IsZero() {
			asOf = inv.AsOfDate.Format("2006-01-02")
		}
		lines = append(lines, inventoryLine(types.RawInventory{
			ProductName:  inv.ProductName,
			ProductID:    inv.ProductID,
			CurrentStock: inv.CurrentStock,
			UnitCost:     inv.UnitCost,
			Category:     inv.Category,
			AsOfDate:     asOf,
		}))
	}
	return hashLines(lines)
}

func saleLine(s types.RawSale) string {
	return strings.Join([]string{
		"s",
		s.Date,
		s.ProductName,
		s.ProductID,
		num(s.Quantity),
		num(s.UnitPrice),
		num(s.TotalAmount),
		s.Category,
	}, "|")
}

func inventoryLine(inv types.RawInventory) string {
	return strings.Join([]string{
		"i",
		inv.ProductName,
		inv.ProductID,
		num(inv.CurrentStock),
		num(inv.UnitCost),
		inv.Category,
		inv.AsOfDate,
	}, "|")
}

// num renders a float canonically so 10, 10.0 and 1e1 fingerprint the same.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hashLines(lines []string) string {
	digests := make([]string, len(lines))
	for i, line := range lines {
		sum := sha256.Sum256([]byte(line))
		digests[i] = hex.EncodeToString(sum[:])
	}
	// Sorting per-record digests makes the set hash order-independent.
	sort.Strings(digests)
	outer := sha256.New()
	for _, d := range digests {
		outer.Write([]byte(d))
		outer.Write([]byte{'\n'})
	}
	return hex.EncodeToString(outer.Sum(nil))
}
