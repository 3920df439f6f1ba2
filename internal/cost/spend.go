package cost

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/maishenyun/stockboard/internal/domain"
)

// SpendPeriod is total purchase value for one reporting month.
type SpendPeriod struct {
	Period string          `json:"period"` // YYYY-MM
	Total  decimal.Decimal `json:"total"`
}

// SpendItem is total historical purchase value for one ingredient.
type SpendItem struct {
	Ingredient string          `json:"ingredient"`
	Total      decimal.Decimal `json:"total"`
}

// SpendTrend aggregates usage value by period and by ingredient.
type SpendTrend struct {
	ByPeriod     []SpendPeriod   `json:"by_period"`
	ByIngredient []SpendItem     `json:"by_ingredient"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

// Spend prices every usage record at its ingredient's unit cost and
// aggregates. Totals are rounded to cents after accumulation, not before, so
// the grand total is consistent with the breakdowns.
func Spend(series []domain.UsageSeries, unitCosts map[string]float64, cfg Config) SpendTrend {
	cfg = cfg.withDefaults()

	byPeriod := make(map[string]decimal.Decimal)
	byIngredient := make(map[string]decimal.Decimal)
	grand := decimal.Zero

	for _, s := range series {
		cost := decimal.NewFromFloat(cfg.unitCost(unitCosts, s.Ingredient))
		for _, r := range s.Records {
			value := decimal.NewFromFloat(r.Quantity).Mul(cost)
			period := r.Period.Format("2006-01")
			byPeriod[period] = byPeriod[period].Add(value)
			byIngredient[s.Ingredient] = byIngredient[s.Ingredient].Add(value)
			grand = grand.Add(value)
		}
	}

	trend := SpendTrend{GrandTotal: grand.Round(2)}

	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	for _, p := range periods {
		trend.ByPeriod = append(trend.ByPeriod, SpendPeriod{Period: p, Total: byPeriod[p].Round(2)})
	}

	names := make([]string, 0, len(byIngredient))
	for n := range byIngredient {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		trend.ByIngredient = append(trend.ByIngredient, SpendItem{Ingredient: n, Total: byIngredient[n].Round(2)})
	}

	return trend
}
