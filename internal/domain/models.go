// internal/domain/models.go
package domain

import "time"

// Ingredient holds the shipment metadata for a tracked ingredient.
type Ingredient struct {
	Name              string            `json:"name"`
	Unit              string            `json:"unit"`
	QtyPerShipment    float64           `json:"qty_per_shipment"`
	ShipmentsPerMonth float64           `json:"shipments_per_month"`
	Frequency         DeliveryFrequency `json:"frequency"`
}

// LeadTimeDays returns the delivery lead time derived from the frequency.
func (i Ingredient) LeadTimeDays() int {
	return i.Frequency.LeadTimeDays()
}

// UsageRecord is one reporting period of recorded usage for an ingredient.
type UsageRecord struct {
	Ingredient string    `json:"ingredient"`
	Period     time.Time `json:"period"` // first day of the month
	Quantity   float64   `json:"quantity"`
}

// UsageSeries is an ordered (ascending by period) usage history for one ingredient.
type UsageSeries struct {
	Ingredient string        `json:"ingredient"`
	Records    []UsageRecord `json:"records"`
}

// Values returns the quantities in period order.
func (s UsageSeries) Values() []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Quantity
	}
	return out
}

// StockLevel is the current on-hand quantity for an ingredient.
type StockLevel struct {
	Ingredient string      `json:"ingredient"`
	Quantity   float64     `json:"quantity"`
	Source     StockSource `json:"source"`
}

// Recipe maps one dish to its per-serving ingredient quantities.
type Recipe struct {
	Dish        string             `json:"dish"`
	Ingredients map[string]float64 `json:"ingredients"`
}

// InventoryState is the derived inventory position for one ingredient.
// It is recomputed on every refresh and never persisted.
type InventoryState struct {
	Ingredient       string      `json:"ingredient"`
	Unit             string      `json:"unit"`
	CurrentStock     float64     `json:"current_stock"`
	StockSource      StockSource `json:"stock_source"`
	AvgDailyUsage    float64     `json:"avg_daily_usage"`
	LeadTimeDays     int         `json:"lead_time_days"`
	SafetyStock      float64     `json:"safety_stock"`
	ReorderPoint     float64     `json:"reorder_point"`
	DaysOfStock      *float64    `json:"days_of_stock"` // nil when avg daily usage is zero
	Status           StockStatus `json:"status"`
	RecommendedOrder float64     `json:"recommended_order,omitempty"`
	UtilizationPct   *float64    `json:"utilization_pct,omitempty"`
}

// InventoryFilter narrows inventory listings.
type InventoryFilter struct {
	Status   string `json:"status"`
	Search   string `json:"search"`
	SortBy   string `json:"sort_by"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// InventorySummary is the dashboard headline card data.
type InventorySummary struct {
	TotalIngredients int         `json:"total_ingredients"`
	LowCount         int         `json:"low_count"`
	NormalCount      int         `json:"normal_count"`
	OverstockCount   int         `json:"overstock_count"`
	ExcludedCount    int         `json:"excluded_count"`
	StockSource      StockSource `json:"stock_source"`
	GeneratedAt      time.Time   `json:"generated_at"`
}

// ReorderItem is one line of the reorder list.
type ReorderItem struct {
	Ingredient       string   `json:"ingredient"`
	Unit             string   `json:"unit"`
	CurrentStock     float64  `json:"current_stock"`
	ReorderPoint     float64  `json:"reorder_point"`
	RecommendedOrder float64  `json:"recommended_order"`
	DaysOfStock      *float64 `json:"days_of_stock"`
}

// DataSummary describes the loaded dataset for the summary endpoint.
type DataSummary struct {
	Ingredients  int        `json:"ingredients"`
	Dishes       int        `json:"dishes"`
	UsagePeriods int        `json:"usage_periods"`
	FirstPeriod  *time.Time `json:"first_period,omitempty"`
	LastPeriod   *time.Time `json:"last_period,omitempty"`
	Warnings     int        `json:"warnings"`
	Fingerprint  string     `json:"fingerprint"`
	RefreshedAt  time.Time  `json:"refreshed_at"`
}
