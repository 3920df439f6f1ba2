package analytics

import (
	"sort"
	"time"

	"github.com/maishenyun/stockboard/internal/domain"
)

// SeasonalRow is one ingredient's usage totals by calendar month, summed
// across years.
type SeasonalRow struct {
	Ingredient string      `json:"ingredient"`
	Monthly    [12]float64 `json:"monthly"` // index 0 = January
	Peak       *time.Month `json:"peak_month,omitempty"`
}

// Seasonal builds the ingredient x calendar-month matrix. Peak is nil when
// the ingredient has no recorded usage at all.
func Seasonal(series []domain.UsageSeries) []SeasonalRow {
	out := make([]SeasonalRow, 0, len(series))

	for _, s := range series {
		row := SeasonalRow{Ingredient: s.Ingredient}
		for _, r := range s.Records {
			row.Monthly[int(r.Period.Month())-1] += r.Quantity
		}

		best, bestVal := -1, 0.0
		for m, v := range row.Monthly {
			if v > bestVal {
				best, bestVal = m, v
			}
		}
		if best >= 0 {
			peak := time.Month(best + 1)
			row.Peak = &peak
		}

		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ingredient < out[j].Ingredient })
	return out
}
