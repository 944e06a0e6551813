package analytics

import (
	"math"
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func saleOn(t *testing.T, date, name, id string, qty, total float64) SaleRow {
	t.Helper()
	return SaleRow{Date: day(t, date), ProductName: name, ProductID: id, Quantity: qty, TotalAmount: total}
}

func TestBestSellersRankingAndTruncation(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-01-10", "A", "P1", 450, 22500),
		saleOn(t, "2025-01-11", "B", "P2", 320, 12800),
		saleOn(t, "2025-01-12", "C", "P3", 10, 90000),
	}}

	byQty := BestSellers(snap, BestSellerParams{Limit: 2, SortBy: "quantity"})
	if len(byQty) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(byQty))
	}
	if byQty[0].ProductID != "P1" || byQty[0].Rank != 1 {
		t.Fatalf("expected P1 rank 1, got %s rank %d", byQty[0].ProductID, byQty[0].Rank)
	}
	if byQty[1].ProductID != "P2" || byQty[1].Rank != 2 {
		t.Fatalf("expected P2 rank 2, got %s rank %d", byQty[1].ProductID, byQty[1].Rank)
	}

	byRevenue := BestSellers(snap, BestSellerParams{Limit: 1, SortBy: "revenue"})
	if byRevenue[0].ProductID != "P3" {
		t.Fatalf("expected P3 first by revenue, got %s", byRevenue[0].ProductID)
	}
}

func TestBestSellersTieBreaksByProductID(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-01-10", "Zed", "P9", 100, 1000),
		saleOn(t, "2025-01-10", "Alpha", "P2", 100, 1000),
	}}
	rows := BestSellers(snap, BestSellerParams{Limit: 10, SortBy: "quantity"})
	if rows[0].ProductID != "P2" || rows[1].ProductID != "P9" {
		t.Fatalf("tie not broken by product id ascending: got %s then %s", rows[0].ProductID, rows[1].ProductID)
	}
}

func TestBestSellersEmptyInput(t *testing.T) {
	rows := BestSellers(Snapshot{}, BestSellerParams{Limit: 10, SortBy: "quantity"})
	if len(rows) != 0 {
		t.Fatalf("empty snapshot must produce empty result, got %d rows", len(rows))
	}
}

func TestRevenueContributionSumsToHundred(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-01-10", "A", "P1", 450, 22500),
		saleOn(t, "2025-01-11", "B", "P2", 320, 12800),
		saleOn(t, "2025-01-12", "C", "P3", 7, 777.77),
	}}
	rows := RevenueContribution(snap, 0)
	var sum float64
	for _, r := range rows {
		sum += r.Percentage
	}
	if math.Abs(sum-100) > 1e-6*100 {
		t.Fatalf("percentages sum to %.12f, want 100 within 1e-6 relative", sum)
	}
}

func TestRevenueContributionEndToEndScenario(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-01-10", "A", "P1", 450, 22500),
		saleOn(t, "2025-01-11", "B", "P2", 320, 12800),
	}}
	rows := RevenueContribution(snap, 0)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ProductID != "P1" {
		t.Fatalf("expected P1 first, got %s", rows[0].ProductID)
	}
	if math.Abs(rows[0].Percentage-63.73) > 0.02 {
		t.Fatalf("P1 contribution %.4f, want ~63.73", rows[0].Percentage)
	}
	if math.Abs(rows[1].Percentage-36.27) > 0.02 {
		t.Fatalf("P2 contribution %.4f, want ~36.27", rows[1].Percentage)
	}
	if math.Abs(rows[0].Percentage+rows[1].Percentage-100) > 1e-9 {
		t.Fatalf("contributions do not sum to 100: %.12f", rows[0].Percentage+rows[1].Percentage)
	}
}

func TestRevenueContributionZeroRevenue(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-01-10", "A", "P1", 5, 0),
	}}
	rows := RevenueContribution(snap, 0)
	if len(rows) != 0 {
		t.Fatalf("zero total revenue must yield empty result, got %d rows", len(rows))
	}
}

func seasonalSnapshot(t *testing.T, months int, quantities []float64) Snapshot {
	t.Helper()
	var sales []SaleRow
	for i := 0; i < months; i++ {
		date := time.Date(2025, time.Month(i+1), 15, 0, 0, 0, 0, time.UTC)
		sales = append(sales, SaleRow{Date: date, ProductName: "Seasonal", ProductID: "S1", Quantity: quantities[i]})
	}
	return Snapshot{Sales: sales}
}

func TestSeasonalityMonthThreshold(t *testing.T) {
	// Exactly 5 distinct months: excluded regardless of variance.
	five := seasonalSnapshot(t, 5, []float64{1, 100, 1, 100, 1})
	if rows := Seasonality(five, 0); len(rows) != 0 {
		t.Fatalf("5 distinct months must be excluded, got %d rows", len(rows))
	}

	// 6 months with CV >= 0.5 clamps to exactly 1.0.
	six := seasonalSnapshot(t, 6, []float64{1, 100, 1, 100, 1, 100})
	rows := Seasonality(six, 0)
	if len(rows) != 1 {
		t.Fatalf("expected 1 seasonal product, got %d", len(rows))
	}
	if rows[0].Score != 1.0 {
		t.Fatalf("high-variance product must clamp to score 1.0, got %v", rows[0].Score)
	}
}

func TestSeasonalityPeakMonthsTieBreak(t *testing.T) {
	// Months 2 and 4 share the top quantity with month 6; top-2 with ties
	// broken by calendar month ascending picks 2 then 4.
	snap := seasonalSnapshot(t, 6, []float64{1, 50, 1, 50, 1, 50})
	rows := Seasonality(snap, 0)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	peaks := rows[0].PeakMonths
	if len(peaks) != 2 || peaks[0] != 2 || peaks[1] != 4 {
		t.Fatalf("peak months = %v, want [2 4]", peaks)
	}
}

func TestSeasonalityMinScoreFilter(t *testing.T) {
	// Near-flat demand over 6 months: tiny CV, filtered by min score.
	snap := seasonalSnapshot(t, 6, []float64{100, 101, 99, 100, 101, 99})
	if rows := Seasonality(snap, 0.3); len(rows) != 0 {
		t.Fatalf("low-variance product should fall below min score, got %d rows", len(rows))
	}
}

func TestInventoryVelocityBucketsAndExclusion(t *testing.T) {
	snap := Snapshot{
		Sales: []SaleRow{
			saleOn(t, "2025-01-10", "Fast", "F1", 120, 1200),
			saleOn(t, "2025-01-10", "Slow", "S1", 10, 100),
			saleOn(t, "2025-01-10", "NoInv", "N1", 500, 5000),
		},
		Inventory: []InventoryRow{
			{ProductName: "Fast", ProductID: "F1", CurrentStock: 10, UnitCost: 5},
			{ProductName: "Slow", ProductID: "S1", CurrentStock: 10, UnitCost: 5},
		},
	}
	rows := InventoryVelocity(snap, VelocityParams{HighThreshold: 12, LowThreshold: 6})
	if len(rows) != 2 {
		t.Fatalf("product without inventory must be excluded; got %d rows", len(rows))
	}
	for _, r := range rows {
		switch r.ProductID {
		case "F1":
			if r.VelocityScore != "high" {
				t.Fatalf("F1 velocity = %s, want high (rate %.2f)", r.VelocityScore, r.TurnoverRate)
			}
		case "S1":
			if r.VelocityScore != "low" {
				t.Fatalf("S1 velocity = %s, want low (rate %.2f)", r.VelocityScore, r.TurnoverRate)
			}
		default:
			t.Fatalf("unexpected product %s in velocity output", r.ProductID)
		}
	}
}

func TestDeadStockStrictThresholdBoundary(t *testing.T) {
	// Latest dataset date is 2025-04-11. "Edge" last sold exactly 90 days
	// before, "Over" 91 days before.
	snap := Snapshot{
		Sales: []SaleRow{
			saleOn(t, "2025-04-11", "Fresh", "FR", 1, 10),
			saleOn(t, "2025-01-11", "Edge", "ED", 1, 10),
			saleOn(t, "2025-01-10", "Over", "OV", 1, 10),
		},
		Inventory: []InventoryRow{
			{ProductName: "Edge", ProductID: "ED", CurrentStock: 5, UnitCost: 20},
			{ProductName: "Over", ProductID: "OV", CurrentStock: 5, UnitCost: 20},
		},
	}
	rows := DeadStock(snap, 90)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 dead-stock row, got %d", len(rows))
	}
	if rows[0].ProductID != "OV" {
		t.Fatalf("threshold must be strict: got %s, want OV", rows[0].ProductID)
	}
	if rows[0].DaysSinceSale != 91 {
		t.Fatalf("days since sale = %d, want 91", rows[0].DaysSinceSale)
	}
	if rows[0].EstimatedValue != 100 {
		t.Fatalf("estimated value = %v, want 100", rows[0].EstimatedValue)
	}
}

func TestDeadStockRequiresStock(t *testing.T) {
	snap := Snapshot{
		Sales: []SaleRow{
			saleOn(t, "2025-04-11", "Fresh", "FR", 1, 10),
			saleOn(t, "2024-01-01", "Gone", "GO", 1, 10),
		},
		Inventory: []InventoryRow{
			{ProductName: "Gone", ProductID: "GO", CurrentStock: 0, UnitCost: 20},
		},
	}
	if rows := DeadStock(snap, 90); len(rows) != 0 {
		t.Fatalf("zero-stock product must not be flagged, got %d rows", len(rows))
	}
}

func TestProfitabilityExcludesMissingCost(t *testing.T) {
	snap := Snapshot{
		Sales: []SaleRow{
			saleOn(t, "2025-01-10", "Known", "K1", 100, 5000),
			saleOn(t, "2025-01-10", "Unknown", "U1", 100, 9000),
		},
		Inventory: []InventoryRow{
			{ProductName: "Known", ProductID: "K1", CurrentStock: 10, UnitCost: 30},
		},
	}
	rows := Profitability(snap)
	if len(rows) != 1 {
		t.Fatalf("product without cost data must be excluded, got %d rows", len(rows))
	}
	r := rows[0]
	if r.Profit != 5000-100*30 {
		t.Fatalf("profit = %v, want %v", r.Profit, 5000-100*30)
	}
	if r.ProfitMargin == nil || math.Abs(*r.ProfitMargin-40) > 1e-9 {
		t.Fatalf("margin = %v, want 40", r.ProfitMargin)
	}
}

func TestProfitabilityZeroRevenueMarginNil(t *testing.T) {
	snap := Snapshot{
		Sales: []SaleRow{
			saleOn(t, "2025-01-10", "Freebie", "F1", 10, 0),
		},
		Inventory: []InventoryRow{
			{ProductName: "Freebie", ProductID: "F1", CurrentStock: 10, UnitCost: 3},
		},
	}
	rows := Profitability(snap)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ProfitMargin != nil {
		t.Fatalf("zero revenue must leave margin nil, got %v", *rows[0].ProfitMargin)
	}
}

func TestTrendsLabelsAndNewMonth(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-01-10", "A", "P1", 10, 1000),
		saleOn(t, "2025-02-10", "A", "P1", 10, 1500),
		saleOn(t, "2025-03-10", "A", "P1", 10, 1510),
		saleOn(t, "2025-04-10", "A", "P1", 10, 700),
	}}
	rows := Trends(snap, TrendParams{Metric: "revenue", Months: 12, StabilityBandPct: 2})
	if len(rows) != 4 {
		t.Fatalf("expected 4 months, got %d", len(rows))
	}
	if rows[0].Trend != "new" || rows[0].ChangePercent != nil {
		t.Fatalf("first month must be new with nil change, got %s %v", rows[0].Trend, rows[0].ChangePercent)
	}
	if rows[1].Trend != "up" {
		t.Fatalf("Feb trend = %s, want up", rows[1].Trend)
	}
	if rows[2].Trend != "stable" {
		t.Fatalf("Mar trend = %s, want stable (change %.2f%%)", rows[2].Trend, *rows[2].ChangePercent)
	}
	if rows[3].Trend != "down" {
		t.Fatalf("Apr trend = %s, want down", rows[3].Trend)
	}
}

func TestTrendsWindowKeepsPredecessorChange(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-01-10", "A", "P1", 10, 1000),
		saleOn(t, "2025-02-10", "A", "P1", 10, 2000),
		saleOn(t, "2025-03-10", "A", "P1", 10, 3000),
	}}
	rows := Trends(snap, TrendParams{Metric: "revenue", Months: 2, StabilityBandPct: 2})
	if len(rows) != 2 {
		t.Fatalf("expected trailing 2 months, got %d", len(rows))
	}
	if rows[0].Month != "2025-02" {
		t.Fatalf("window starts at %s, want 2025-02", rows[0].Month)
	}
	if rows[0].ChangePercent == nil || math.Abs(*rows[0].ChangePercent-100) > 1e-9 {
		t.Fatalf("window's first month must still see its predecessor, got %v", rows[0].ChangePercent)
	}
}

func TestTrendsEmptyInput(t *testing.T) {
	if rows := Trends(Snapshot{}, TrendParams{Metric: "revenue", Months: 6, StabilityBandPct: 2}); len(rows) != 0 {
		t.Fatalf("empty snapshot must yield empty trends")
	}
}

func TestDailySalesZeroFillsMissingDays(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-02-03", "A", "P1", 2, 200),
		saleOn(t, "2025-02-03", "B", "P2", 1, 50),
		saleOn(t, "2025-02-20", "A", "P1", 1, 100),
	}}
	rows := DailySales(snap, 2025, time.February)
	if len(rows) != 28 {
		t.Fatalf("February 2025 must have 28 rows, got %d", len(rows))
	}
	if rows[2].Revenue != 250 {
		t.Fatalf("Feb 3 revenue = %v, want 250", rows[2].Revenue)
	}
	if rows[3].Revenue != 0 {
		t.Fatalf("Feb 4 revenue = %v, want 0", rows[3].Revenue)
	}
}

func TestForecastInsufficientData(t *testing.T) {
	snap := Snapshot{Sales: []SaleRow{
		saleOn(t, "2025-01-01", "A", "P1", 5, 100),
		saleOn(t, "2025-01-02", "A", "P1", 5, 100),
	}}
	if rows := Forecast(snap, 7, ""); len(rows) != 0 {
		t.Fatalf("fewer than 7 sale days must yield empty forecast, got %d rows", len(rows))
	}
}

func TestForecastProducesRequestedHorizon(t *testing.T) {
	var sales []SaleRow
	for d := 1; d <= 10; d++ {
		sales = append(sales, SaleRow{
			Date:        time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC),
			ProductName: "A", ProductID: "P1", Quantity: 10, TotalAmount: 200,
		})
	}
	rows := Forecast(Snapshot{Sales: sales}, 5, "")
	if len(rows) != 5 {
		t.Fatalf("expected 5 forecast rows, got %d", len(rows))
	}
	if rows[0].Date != "2025-03-11" {
		t.Fatalf("forecast starts at %s, want 2025-03-11", rows[0].Date)
	}
	if rows[0].Confidence != "high" {
		t.Fatalf("flat demand should forecast with high confidence, got %s", rows[0].Confidence)
	}
	if math.Abs(rows[0].PredictedRevenue-rows[0].PredictedQuantity*20) > 1e-9 {
		t.Fatalf("revenue must follow average price: qty %v revenue %v", rows[0].PredictedQuantity, rows[0].PredictedRevenue)
	}
}
