package inventory

import (
	"github.com/maishenyun/stockboard/internal/domain"
)

// Config tunes the inventory formulas. Zero values fall back to the defaults
// used across the dashboard.
type Config struct {
	SafetyStockDays float64 // buffer expressed in days of average usage
	OverstockDays   float64 // days of cover above which an item is overstocked
}

// DefaultConfig returns the standard 7-day safety buffer and 60-day
// overstock bound.
func DefaultConfig() Config {
	return Config{
		SafetyStockDays: 7,
		OverstockDays:   60,
	}
}

// Calculator derives InventoryState rows from shipment metadata and current
// stock levels. All outputs are pure functions of the inputs.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator, applying defaults for unset config.
func NewCalculator(cfg Config) *Calculator {
	if cfg.SafetyStockDays <= 0 {
		cfg.SafetyStockDays = 7
	}
	if cfg.OverstockDays <= 0 {
		cfg.OverstockDays = 60
	}
	return &Calculator{cfg: cfg}
}

// Calculate computes the inventory position for one ingredient.
//
//  1. Average daily usage = qty per shipment × shipments per month / 30.
//  2. Safety stock = daily usage × safety-stock days.
//  3. Reorder point = lead time × daily usage + safety stock.
//  4. Days of stock = stock / daily usage; undefined (nil) when usage is zero.
//  5. Status: low below reorder point, overstock above the overstock bound,
//     normal otherwise. Exactly one holds.
//  6. Recommended order (low only) = shortfall to reorder point + one shipment.
func (c *Calculator) Calculate(ing domain.Ingredient, stock domain.StockLevel) domain.InventoryState {
	state := domain.InventoryState{
		Ingredient:   ing.Name,
		Unit:         ing.Unit,
		CurrentStock: stock.Quantity,
		StockSource:  stock.Source,
		LeadTimeDays: ing.LeadTimeDays(),
	}

	state.AvgDailyUsage = AvgDailyUsage(ing.QtyPerShipment, ing.ShipmentsPerMonth)
	state.SafetyStock = state.AvgDailyUsage * c.cfg.SafetyStockDays
	state.ReorderPoint = float64(state.LeadTimeDays)*state.AvgDailyUsage + state.SafetyStock

	if state.AvgDailyUsage > 0 {
		days := state.CurrentStock / state.AvgDailyUsage
		state.DaysOfStock = &days
	}

	state.Status = Classify(state.CurrentStock, state.ReorderPoint, state.AvgDailyUsage, c.cfg.OverstockDays)
	if state.Status == domain.StatusLow {
		state.RecommendedOrder = (state.ReorderPoint - state.CurrentStock) + ing.QtyPerShipment
	}

	if state.CurrentStock > 0 {
		util := state.AvgDailyUsage * 30 / state.CurrentStock * 100
		state.UtilizationPct = &util
	}

	return state
}

// AvgDailyUsage converts monthly shipment volume to a per-day rate.
func AvgDailyUsage(qtyPerShipment, shipmentsPerMonth float64) float64 {
	usage := qtyPerShipment * shipmentsPerMonth / 30
	if usage < 0 {
		return 0
	}
	return usage
}

// Classify maps an inventory position to its status. Low wins over overstock
// when both bounds would match (possible only with degenerate inputs).
func Classify(currentStock, reorderPoint, avgDailyUsage, overstockDays float64) domain.StockStatus {
	switch {
	case currentStock < reorderPoint:
		return domain.StatusLow
	case currentStock > avgDailyUsage*overstockDays:
		return domain.StatusOverstock
	default:
		return domain.StatusNormal
	}
}
