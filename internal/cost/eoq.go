package cost

import (
	"fmt"
	"math"
	"sort"

	"github.com/maishenyun/stockboard/internal/domain"
)

// EOQItem is one ingredient's economic-order-quantity row, compared against
// the shipment size currently in use.
type EOQItem struct {
	Ingredient      string  `json:"ingredient"`
	AnnualDemand    float64 `json:"annual_demand"`
	UnitCost        float64 `json:"unit_cost"`
	OrderingCost    float64 `json:"ordering_cost"`
	HoldingCost     float64 `json:"holding_cost"`
	EOQ             float64 `json:"eoq"`
	CurrentOrderQty float64 `json:"current_order_qty"` // qty per shipment
	MonthlyVolume   float64 `json:"monthly_volume"`    // qty x shipments/month
	Recommendation  string  `json:"recommendation"`    // increase | decrease | keep
}

// recommendationBand is the +/- fraction around EOQ inside which the current
// order size counts as fine.
const recommendationBand = 0.1

// EOQ computes sqrt(2DS/H). Demand of zero is a valid no-order case; a
// non-positive holding cost or negative ordering cost is a configuration
// error.
func EOQ(annualDemand, orderingCost, holdingCost float64) (float64, error) {
	if orderingCost < 0 {
		return 0, fmt.Errorf("%w: ordering cost must not be negative, got %v", domain.ErrInvalidConfig, orderingCost)
	}
	if holdingCost <= 0 {
		return 0, fmt.Errorf("%w: holding cost must be positive, got %v", domain.ErrInvalidConfig, holdingCost)
	}
	if annualDemand < 0 {
		return 0, fmt.Errorf("%w: annual demand must not be negative, got %v", domain.ErrInvalidConfig, annualDemand)
	}
	return math.Sqrt(2 * annualDemand * orderingCost / holdingCost), nil
}

// EOQAll builds EOQ rows for every ingredient with shipment metadata, using
// avg daily usage from the computed states. Holding cost is unit cost times
// the holding rate.
func EOQAll(ingredients []domain.Ingredient, states []domain.InventoryState, unitCosts map[string]float64, cfg Config) ([]EOQItem, error) {
	cfg = cfg.withDefaults()
	if cfg.HoldingRate <= 0 {
		return nil, fmt.Errorf("%w: holding rate must be positive, got %v", domain.ErrInvalidConfig, cfg.HoldingRate)
	}

	daily := make(map[string]float64, len(states))
	for _, st := range states {
		daily[st.Ingredient] = st.AvgDailyUsage
	}

	out := make([]EOQItem, 0, len(ingredients))
	for _, ing := range ingredients {
		unitCost := cfg.unitCost(unitCosts, ing.Name)
		holding := unitCost * cfg.HoldingRate
		demand := daily[ing.Name] * 365

		eoq, err := EOQ(demand, cfg.OrderingCost, holding)
		if err != nil {
			return nil, fmt.Errorf("eoq for %s: %w", ing.Name, err)
		}

		item := EOQItem{
			Ingredient:      ing.Name,
			AnnualDemand:    demand,
			UnitCost:        unitCost,
			OrderingCost:    cfg.OrderingCost,
			HoldingCost:     holding,
			EOQ:             eoq,
			CurrentOrderQty: ing.QtyPerShipment,
			MonthlyVolume:   ing.QtyPerShipment * ing.ShipmentsPerMonth,
			Recommendation:  recommend(eoq, ing.QtyPerShipment),
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ingredient < out[j].Ingredient })
	return out, nil
}

// recommend compares the current order size against EOQ with a tolerance
// band: ordering well under EOQ means too-frequent small orders (increase),
// well over means capital sits in stock (decrease).
func recommend(eoq, current float64) string {
	switch {
	case current < eoq*(1-recommendationBand):
		return "increase"
	case current > eoq*(1+recommendationBand):
		return "decrease"
	default:
		return "keep"
	}
}
