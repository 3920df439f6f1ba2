package analytics

import (
	"math"
	"sort"

	"github.com/maishenyun/stockboard/internal/domain"
)

// TrendDirection compares the first and second half of a series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// TrendStats summarizes one ingredient's usage history.
type TrendStats struct {
	Ingredient string         `json:"ingredient"`
	Periods    int            `json:"periods"`
	Mean       float64        `json:"mean"`
	Median     float64        `json:"median"`
	StdDev     float64        `json:"std_dev"` // sample standard deviation
	Min        float64        `json:"min"`
	Max        float64        `json:"max"`
	CV         *float64       `json:"cv,omitempty"` // nil when mean is zero
	Volatile   bool           `json:"volatile"`
	Direction  TrendDirection `json:"direction"`
}

// A series is flagged volatile when its coefficient of variation exceeds this.
const volatilityCV = 0.3

// directionBand is the +/- fraction around the first-half mean inside which
// the series counts as stable.
const directionBand = 0.1

// Trend computes summary statistics for a usage series. It needs at least
// one observation; direction needs two and reads stable below that.
func Trend(s domain.UsageSeries) (TrendStats, error) {
	values := s.Values()
	if len(values) == 0 {
		return TrendStats{}, domain.ErrInsufficientData
	}

	st := TrendStats{
		Ingredient: s.Ingredient,
		Periods:    len(values),
		Direction:  TrendStable,
	}

	st.Min, st.Max = values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}
	st.Mean = sum / float64(len(values))
	st.Median = median(values)

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - st.Mean
			sq += d * d
		}
		st.StdDev = math.Sqrt(sq / float64(len(values)-1))
	}

	if st.Mean != 0 {
		cv := st.StdDev / st.Mean
		st.CV = &cv
		st.Volatile = cv > volatilityCV
	}

	if len(values) >= 2 {
		st.Direction = direction(values)
	}

	return st, nil
}

// TrendAll computes stats for every series, skipping empty ones.
func TrendAll(series []domain.UsageSeries) []TrendStats {
	out := make([]TrendStats, 0, len(series))
	for _, s := range series {
		st, err := Trend(s)
		if err != nil {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ingredient < out[j].Ingredient })
	return out
}

// direction compares first-half and second-half means with a stability band.
func direction(values []float64) TrendDirection {
	half := len(values) / 2
	first := mean(values[:half])
	second := mean(values[len(values)-half:])

	if first == 0 {
		if second > 0 {
			return TrendIncreasing
		}
		return TrendStable
	}

	switch {
	case second > first*(1+directionBand):
		return TrendIncreasing
	case second < first*(1-directionBand):
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
