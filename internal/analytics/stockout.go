package analytics

import (
	"sort"

	"github.com/maishenyun/stockboard/internal/domain"
)

// RiskLevel grades stockout exposure against lead-time demand.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical" // stock covers at most one lead time
	RiskHigh     RiskLevel = "high"     // at most 1.5 lead times
	RiskMedium   RiskLevel = "medium"   // at most 2 lead times
	RiskLow      RiskLevel = "low"
)

// rank orders levels for sorting, tightest first.
var riskRank = map[RiskLevel]int{
	RiskCritical: 0,
	RiskHigh:     1,
	RiskMedium:   2,
	RiskLow:      3,
}

// StockoutRisk is one ingredient's exposure measured in lead-time demand
// multiples.
type StockoutRisk struct {
	Ingredient     string    `json:"ingredient"`
	CurrentStock   float64   `json:"current_stock"`
	LeadTimeDemand float64   `json:"lead_time_demand"`
	Cover          *float64  `json:"cover"` // stock / lead-time demand, nil when demand is zero
	Level          RiskLevel `json:"level"`
}

// StockoutRisks grades every ingredient. Zero lead-time demand means the
// ingredient cannot stock out on projected usage and grades low with an
// undefined cover. Results sort tightest risk first, then by name.
func StockoutRisks(states []domain.InventoryState) []StockoutRisk {
	out := make([]StockoutRisk, 0, len(states))

	for _, st := range states {
		demand := st.AvgDailyUsage * float64(st.LeadTimeDays)
		r := StockoutRisk{
			Ingredient:     st.Ingredient,
			CurrentStock:   st.CurrentStock,
			LeadTimeDemand: demand,
			Level:          RiskLow,
		}

		if demand > 0 {
			cover := st.CurrentStock / demand
			r.Cover = &cover
			switch {
			case cover <= 1:
				r.Level = RiskCritical
			case cover <= 1.5:
				r.Level = RiskHigh
			case cover <= 2:
				r.Level = RiskMedium
			}
		}

		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if riskRank[out[i].Level] != riskRank[out[j].Level] {
			return riskRank[out[i].Level] < riskRank[out[j].Level]
		}
		return out[i].Ingredient < out[j].Ingredient
	})

	return out
}
