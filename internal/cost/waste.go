package cost

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/maishenyun/stockboard/internal/domain"
)

// WasteItem estimates one ingredient's monthly over-ordering: received volume
// (shipment size x shipments per month) minus mean monthly usage, floored at
// zero because under-ordering is a stockout problem, not waste.
type WasteItem struct {
	Ingredient string          `json:"ingredient"`
	Category   Category        `json:"category"`
	Received   float64         `json:"received"`
	Used       float64         `json:"used"`
	Waste      float64         `json:"waste"`
	WastePct   *float64        `json:"waste_pct"` // of received, nil when nothing received
	Value      decimal.Decimal `json:"value"`
}

// CategoryWaste rolls waste up per category and compares the measured rate
// with the category's expected rate.
type CategoryWaste struct {
	Category    Category        `json:"category"`
	Received    float64         `json:"received"`
	Waste       float64         `json:"waste"`
	ExpectedPct float64         `json:"expected_pct"`
	ActualPct   *float64        `json:"actual_pct"` // nil when nothing received
	Value       decimal.Decimal `json:"value"`
}

// WasteReport estimates waste per ingredient and per category. Ingredients
// with no usage history count their whole received volume as waste, which is
// exactly what an untouched standing order is.
func WasteReport(ingredients []domain.Ingredient, series []domain.UsageSeries, unitCosts map[string]float64, cfg Config) ([]WasteItem, []CategoryWaste) {
	cfg = cfg.withDefaults()

	meanUsage := make(map[string]float64, len(series))
	for _, s := range series {
		meanUsage[s.Ingredient] = meanOf(s.Values())
	}

	items := make([]WasteItem, 0, len(ingredients))
	catAgg := make(map[Category]*CategoryWaste)

	for _, ing := range ingredients {
		received := ing.QtyPerShipment * ing.ShipmentsPerMonth
		used := meanUsage[ing.Name]
		waste := received - used
		if waste < 0 {
			waste = 0
		}

		item := WasteItem{
			Ingredient: ing.Name,
			Category:   Categorize(ing.Name),
			Received:   received,
			Used:       used,
			Waste:      waste,
			Value:      money(waste * cfg.unitCost(unitCosts, ing.Name)),
		}
		if received > 0 {
			pct := waste / received * 100
			item.WastePct = &pct
		}
		items = append(items, item)

		agg, ok := catAgg[item.Category]
		if !ok {
			agg = &CategoryWaste{
				Category:    item.Category,
				ExpectedPct: CategoryWastePct[item.Category] * 100,
				Value:       decimal.Zero,
			}
			catAgg[item.Category] = agg
		}
		agg.Received += received
		agg.Waste += waste
		agg.Value = agg.Value.Add(item.Value)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Waste > items[j].Waste })

	cats := make([]CategoryWaste, 0, len(catAgg))
	for _, agg := range catAgg {
		if agg.Received > 0 {
			pct := agg.Waste / agg.Received * 100
			agg.ActualPct = &pct
		}
		cats = append(cats, *agg)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Category < cats[j].Category })

	return items, cats
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
