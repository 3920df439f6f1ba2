package analytics

import (
	"sort"

	"github.com/maishenyun/stockboard/internal/domain"
)

// TurnoverClass buckets how often an ingredient's stock turns per year.
type TurnoverClass string

const (
	TurnoverFast   TurnoverClass = "fast"   // >= 12 turns/year
	TurnoverMedium TurnoverClass = "medium" // 4..12
	TurnoverSlow   TurnoverClass = "slow"   // < 4
)

const (
	turnoverFastMin = 12.0
	turnoverSlowMax = 4.0
)

// TurnoverItem is one ingredient's annual turnover estimate, using current
// stock as the average-stock proxy (the dashboard has point-in-time counts,
// not a stock history).
type TurnoverItem struct {
	Ingredient      string        `json:"ingredient"`
	AnnualizedUsage float64       `json:"annualized_usage"`
	AvgStock        float64       `json:"avg_stock"`
	Ratio           *float64      `json:"ratio"` // nil when stock is zero
	Class           TurnoverClass `json:"class"`
}

// Turnover estimates annual turns per ingredient: mean monthly usage x 12
// over current stock. Zero stock with recorded usage classifies fast (stock
// turns over as fast as it arrives); zero stock and zero usage is a dormant
// ingredient and classifies slow. Both keep a nil ratio.
func Turnover(series []domain.UsageSeries, states []domain.InventoryState) []TurnoverItem {
	stock := make(map[string]float64, len(states))
	for _, st := range states {
		stock[st.Ingredient] = st.CurrentStock
	}

	out := make([]TurnoverItem, 0, len(series))
	for _, s := range series {
		annualized := mean(s.Values()) * 12

		item := TurnoverItem{
			Ingredient:      s.Ingredient,
			AnnualizedUsage: annualized,
			AvgStock:        stock[s.Ingredient],
		}

		if item.AvgStock > 0 {
			ratio := annualized / item.AvgStock
			item.Ratio = &ratio
			item.Class = classifyTurnover(ratio)
		} else if annualized > 0 {
			item.Class = TurnoverFast
		} else {
			item.Class = TurnoverSlow
		}

		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ingredient < out[j].Ingredient })
	return out
}

func classifyTurnover(ratio float64) TurnoverClass {
	switch {
	case ratio >= turnoverFastMin:
		return TurnoverFast
	case ratio < turnoverSlowMax:
		return TurnoverSlow
	default:
		return TurnoverMedium
	}
}
