package menu

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/maishenyun/stockboard/internal/domain"
)

// CostLine prices one ingredient requirement.
type CostLine struct {
	Ingredient string          `json:"ingredient"`
	Quantity   float64         `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Total      decimal.Decimal `json:"total"`
}

// CostReport totals what a menu costs to stock for a month.
type CostReport struct {
	Total     decimal.Decimal `json:"total"`
	PerDish   decimal.Decimal `json:"per_dish"`
	Breakdown []CostLine      `json:"breakdown"`
}

// Cost prices the requirements of a dish list. Unit costs are keyed by
// normalized ingredient name; ingredients without a known cost fall back to
// defaultUnitCost. Amounts accumulate at full precision and round to cents
// at the end. The breakdown is sorted by line total descending.
func (p *Planner) Cost(dishes []string, sales map[string]int, unitCosts map[string]float64, defaultUnitCost float64) CostReport {
	reqs, _ := p.Requirements(dishes, sales)

	total := decimal.Zero
	breakdown := make([]CostLine, 0, len(reqs))
	for _, req := range reqs {
		unitCost, ok := unitCosts[domain.NormalizeName(req.Ingredient)]
		if !ok {
			unitCost = defaultUnitCost
		}
		line := decimal.NewFromFloat(req.Quantity).Mul(decimal.NewFromFloat(unitCost))
		breakdown = append(breakdown, CostLine{
			Ingredient: req.Ingredient,
			Quantity:   req.Quantity,
			UnitCost:   decimal.NewFromFloat(unitCost),
			Total:      line.Round(2),
		})
		total = total.Add(line)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Total.Equal(breakdown[j].Total) {
			return breakdown[i].Total.GreaterThan(breakdown[j].Total)
		}
		return breakdown[i].Ingredient < breakdown[j].Ingredient
	})

	report := CostReport{Total: total.Round(2), Breakdown: breakdown}
	if len(dishes) > 0 {
		report.PerDish = total.Div(decimal.NewFromInt(int64(len(dishes)))).Round(2)
	} else {
		report.PerDish = decimal.Zero
	}
	return report
}
