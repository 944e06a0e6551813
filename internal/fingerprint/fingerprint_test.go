package fingerprint

import (
	"testing"
	"time"

	"github.com/shoplens/shoplens-backend/internal/types"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func sale(date, name, id string, qty, price, total float64) types.RawSale {
	return types.RawSale{
		Date:        date,
		ProductName: name,
		ProductID:   id,
		Quantity:    qty,
		UnitPrice:   price,
		TotalAmount: total,
	}
}

func TestComputeStableUnderReordering(t *testing.T) {
	a := sale("2025-01-03", "Chai", "P1", 10, 25, 250)
	b := sale("2025-01-04", "Biscuits", "P2", 4, 30, 120)
	c := sale("2025-01-05", "Soap", "P3", 2, 45, 90)

	fp1 := Compute([]types.RawSale{a, b, c}, nil)
	fp2 := Compute([]types.RawSale{c, a, b}, nil)
	if fp1 != fp2 {
		t.Fatalf("fingerprint not stable under reordering: %s vs %s", fp1, fp2)
	}
}

func TestComputeChangesWithSingleRecord(t *testing.T) {
	a := sale("2025-01-03", "Chai", "P1", 10, 25, 250)
	b := sale("2025-01-04", "Biscuits", "P2", 4, 30, 120)

	base := Compute([]types.RawSale{a, b}, nil)

	changed := b
	changed.Quantity = 5
	mutated := Compute([]types.RawSale{a, changed}, nil)
	if base == mutated {
		t.Fatalf("changing one record's quantity did not change the fingerprint")
	}
}

func TestComputeIdenticalLogicalSets(t *testing.T) {
	inv := types.RawInventory{ProductName: "Chai", ProductID: "P1", CurrentStock: 40, UnitCost: 18, AsOfDate: "2025-01-31"}

	// Two separate uploads of the same logical content.
	fp1 := Compute([]types.RawSale{sale("2025-01-03", "Chai", "P1", 10, 25, 250)}, []types.RawInventory{inv})
	fp2 := Compute([]types.RawSale{sale("2025-01-03", "Chai", "P1", 10, 25, 250)}, []types.RawInventory{inv})
	if fp1 != fp2 {
		t.Fatalf("identical logical sets hashed differently")
	}
}

func TestComputeNumericCanonicalization(t *testing.T) {
	fp1 := Compute([]types.RawSale{sale("2025-01-03", "Chai", "P1", 10, 25, 250)}, nil)
	fp2 := Compute([]types.RawSale{sale("2025-01-03", "Chai", "P1", 10.0, 25.0, 250.0)}, nil)
	if fp1 != fp2 {
		t.Fatalf("numerically equal records hashed differently")
	}
}

func TestComputeEmptySetIsDefined(t *testing.T) {
	fp := Compute(nil, nil)
	if fp == "" {
		t.Fatalf("empty set must still produce a fingerprint")
	}
	if fp != Compute([]types.RawSale{}, []types.RawInventory{}) {
		t.Fatalf("nil and empty slices must hash identically")
	}
}

func TestComputeStoredAgreesWithCompute(t *testing.T) {
	raw := sale("2025-01-03", "Chai", "P1", 10, 25, 250)
	fpRaw := Compute([]types.RawSale{raw}, nil)

	stored := types.SaleRecord{
		Date:        mustDate(t, "2025-01-03"),
		ProductName: "Chai",
		ProductID:   "P1",
		Quantity:    10,
		UnitPrice:   25,
		TotalAmount: 250,
	}
	fpStored := ComputeStored([]types.SaleRecord{stored}, nil)
	if fpRaw != fpStored {
		t.Fatalf("Compute and ComputeStored disagree: %s vs %s", fpRaw, fpStored)
	}
}
