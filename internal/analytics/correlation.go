package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/maishenyun/stockboard/internal/domain"
)

// CorrelationMatrix holds pairwise Pearson coefficients over aligned usage
// periods. A nil cell means the pair is undefined: fewer than two overlapping
// periods, or one side has zero variance. Undefined is reported as null, not
// coerced to zero.
type CorrelationMatrix struct {
	Ingredients []string     `json:"ingredients"`
	Cells       [][]*float64 `json:"cells"`
}

// minOverlap is the smallest number of shared periods a pair needs.
const minOverlap = 2

// Correlations computes the pairwise matrix, ingredients sorted by name.
func Correlations(series []domain.UsageSeries) CorrelationMatrix {
	sorted := make([]domain.UsageSeries, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ingredient < sorted[j].Ingredient })

	byPeriod := make([]map[time.Time]float64, len(sorted))
	names := make([]string, len(sorted))
	for i, s := range sorted {
		names[i] = s.Ingredient
		m := make(map[time.Time]float64, len(s.Records))
		for _, r := range s.Records {
			m[r.Period] = r.Quantity
		}
		byPeriod[i] = m
	}

	cells := make([][]*float64, len(sorted))
	for i := range sorted {
		cells[i] = make([]*float64, len(sorted))
		for j := range sorted {
			if j < i {
				cells[i][j] = cells[j][i]
				continue
			}
			cells[i][j] = pearson(byPeriod[i], byPeriod[j])
		}
	}

	return CorrelationMatrix{Ingredients: names, Cells: cells}
}

// pearson aligns two period maps on their shared periods and computes the
// coefficient, or nil when it is undefined.
func pearson(a, b map[time.Time]float64) *float64 {
	var xs, ys []float64
	for period, av := range a {
		if bv, ok := b[period]; ok {
			xs = append(xs, av)
			ys = append(ys, bv)
		}
	}
	if len(xs) < minOverlap {
		return nil
	}

	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
		sumY2 += ys[i] * ys[i]
	}

	varX := n*sumX2 - sumX*sumX
	varY := n*sumY2 - sumY*sumY
	if varX <= 0 || varY <= 0 {
		return nil
	}

	r := (n*sumXY - sumX*sumY) / math.Sqrt(varX*varY)
	return &r
}
