// Package analytics holds the pure computators. Every computator maps a
// record snapshot plus parameters to a deterministic, tie-broken result set,
// which is what makes the results cacheable by content fingerprint.
package analytics

import (
	"time"
)

// SaleRow and InventoryRow are the in-memory snapshot forms of the raw
// records. Snapshots are never mutated by computators.
type SaleRow struct {
	Date        time.Time `json:"date"`
	ProductName string    `json:"product_name"`
	ProductID   string    `json:"product_id"`
	Category    string    `json:"category"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalAmount float64   `json:"total_amount"`
}

type InventoryRow struct {
	ProductName  string    `json:"product_name"`
	ProductID    string    `json:"product_id"`
	Category     string    `json:"category"`
	CurrentStock float64   `json:"current_stock"`
	UnitCost     float64   `json:"unit_cost"`
	AsOfDate     time.Time `json:"as_of_date"`
}

type Snapshot struct {
	Sales     []SaleRow      `json:"sales"`
	Inventory []InventoryRow `json:"inventory"`
}

// LatestSaleDate returns the newest date present in the snapshot. Dead stock
// and the seasonal-peak rule measure from this date rather than wall clock so
// a static dataset always produces the same results.
func (s Snapshot) LatestSaleDate() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, row := range s.Sales {
		if !found || row.Date.After(latest) {
			latest = row.Date
			found = true
		}
	}
	return latest, found
}

// TotalRevenue sums total_amount over every sale in the snapshot.
func (s Snapshot) TotalRevenue() float64 {
	var total float64
	for _, row := range s.Sales {
		total += row.TotalAmount
	}
	return total
}

// productKey is the canonical product identifier used for grouping and
// tie-breaking: the product id when present, else the product name.
func productKey(id, name string) string {
	if id != "" {
		return id
	}
	return name
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Result row types, one per computator.

type BestSellerRow struct {
	ProductName   string  `json:"product_name"`
	ProductID     string  `json:"product_id,omitempty"`
	Category      string  `json:"category,omitempty"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	Rank          int     `json:"rank"`
}

type BestSellerParams struct {
	Limit  int    `json:"limit"`
	SortBy string `json:"sort_by"`          // "quantity" or "revenue"
	Period string `json:"period,omitempty"` // optional YYYY-MM filter
}

type ContributionRow struct {
	ProductName string  `json:"product_name"`
	ProductID   string  `json:"product_id,omitempty"`
	Category    string  `json:"category,omitempty"`
	Revenue     float64 `json:"revenue"`
	Percentage  float64 `json:"percentage"`
	Rank        int     `json:"rank"`
}

type SeasonalityRow struct {
	ProductName string  `json:"product_name"`
	ProductID   string  `json:"product_id,omitempty"`
	Category    string  `json:"category,omitempty"`
	Score       float64 `json:"seasonality_score"`
	PeakMonths  []int   `json:"peak_months"`
}

type VelocityRow struct {
	ProductName   string  `json:"product_name"`
	ProductID     string  `json:"product_id,omitempty"`
	Category      string  `json:"category,omitempty"`
	TurnoverRate  float64 `json:"turnover_rate"`
	VelocityScore string  `json:"velocity_score"` // high | medium | low
	AvgStockLevel float64 `json:"avg_stock_level"`
	TotalQuantity float64 `json:"total_quantity_sold"`
}

type VelocityParams struct {
	HighThreshold float64 `json:"high_threshold"`
	LowThreshold  float64 `json:"low_threshold"`
}

type DeadStockRow struct {
	ProductName    string    `json:"product_name"`
	ProductID      string    `json:"product_id,omitempty"`
	Category       string    `json:"category,omitempty"`
	LastSaleDate   time.Time `json:"last_sale_date"`
	DaysSinceSale  int       `json:"days_since_sale"`
	CurrentStock   float64   `json:"current_stock"`
	UnitCost       float64   `json:"unit_cost"`
	EstimatedValue float64   `json:"estimated_value"`
}

type ProfitabilityRow struct {
	ProductName  string   `json:"product_name"`
	ProductID    string   `json:"product_id,omitempty"`
	Category     string   `json:"category,omitempty"`
	Revenue      float64  `json:"revenue"`
	Cost         float64  `json:"cost"`
	Profit       float64  `json:"profit"`
	ProfitMargin *float64 `json:"profit_margin"` // nil when revenue is zero
	Rank         int      `json:"rank"`
}

type TrendRow struct {
	Month         string   `json:"month"`          // YYYY-MM
	Value         float64  `json:"value"`
	ChangePercent *float64 `json:"change_percent"` // nil for the first observed month
	Trend         string   `json:"trend"`          // up | down | stable | new
	PreviousMonth string   `json:"previous_month,omitempty"`
	PreviousValue *float64 `json:"previous_value,omitempty"`
}

type TrendParams struct {
	Metric           string  `json:"metric"` // "revenue" or "quantity"
	Months           int     `json:"months"`
	StabilityBandPct float64 `json:"stability_band_pct"`
}

type DailySaleRow struct {
	Day      int     `json:"day"`
	Date     string  `json:"date"`
	Revenue  float64 `json:"value"`
	Quantity float64 `json:"quantity"`
}

type ForecastRow struct {
	Date              string  `json:"date"`
	ProductName       string  `json:"product_name"`
	ProductID         string  `json:"product_id,omitempty"`
	PredictedQuantity float64 `json:"predicted_quantity"`
	PredictedRevenue  float64 `json:"predicted_revenue"`
	Confidence        string  `json:"confidence"`
}
