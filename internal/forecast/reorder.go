package forecast

import (
	"sort"
	"time"

	"github.com/maishenyun/stockboard/internal/domain"
)

// ReorderProjection tells when an ingredient is expected to cross its
// reorder point, walking projected usage forward day by day.
type ReorderProjection struct {
	Ingredient    string     `json:"ingredient"`
	Unit          string     `json:"unit"`
	DaysUntil     int        `json:"days_until_reorder"`
	Date          *time.Time `json:"reorder_date,omitempty"`
	BeyondHorizon bool       `json:"beyond_horizon"`
	Urgent        bool       `json:"urgent"`
}

// urgentWindowDays marks projections due within a week.
const urgentWindowDays = 7

// ProjectReorderDate walks the projected monthly usage forward from the
// current stock, draining it one day at a time, and reports the first day on
// which stock would sit below the reorder point. Stock already below the
// point reorders today. When the horizon runs out first, the projection is
// flagged beyond-horizon.
func ProjectReorderDate(stock, reorderPoint float64, projected []float64, start time.Time) ReorderProjection {
	day := 0
	cursor := start
	for _, monthly := range projected {
		days := daysInMonth(cursor)
		daily := 0.0
		if monthly > 0 {
			daily = monthly / float64(days)
		}
		for d := 0; d < days; d++ {
			if stock < reorderPoint {
				date := start.AddDate(0, 0, day)
				return ReorderProjection{
					DaysUntil: day,
					Date:      &date,
					Urgent:    day <= urgentWindowDays,
				}
			}
			stock -= daily
			day++
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	// The last projected day may itself drain stock below the point.
	if stock < reorderPoint {
		date := start.AddDate(0, 0, day)
		return ReorderProjection{
			DaysUntil: day,
			Date:      &date,
			Urgent:    day <= urgentWindowDays,
		}
	}

	return ReorderProjection{DaysUntil: day, BeyondHorizon: true}
}

// BuildSchedule projects a reorder date for every ingredient with usage
// history and orders the result soonest first, beyond-horizon entries last.
// Ingredients whose series cannot support any method keep their place with a
// beyond-horizon marker rather than dropping out.
func BuildSchedule(states []domain.InventoryState, series map[string][]float64, horizon int, cfg Config, now time.Time) []ReorderProjection {
	out := make([]ReorderProjection, 0, len(states))

	for _, st := range states {
		proj := ReorderProjection{
			Ingredient:    st.Ingredient,
			Unit:          st.Unit,
			BeyondHorizon: true,
		}

		if values, ok := series[st.Ingredient]; ok {
			if projected, err := Run(MethodEnsemble, values, horizon, cfg); err == nil {
				p := ProjectReorderDate(st.CurrentStock, st.ReorderPoint, projected, now)
				p.Ingredient = st.Ingredient
				p.Unit = st.Unit
				proj = p
			}
		}

		out = append(out, proj)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BeyondHorizon != out[j].BeyondHorizon {
			return !out[i].BeyondHorizon
		}
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return out[i].Ingredient < out[j].Ingredient
	})

	return out
}

func daysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}
