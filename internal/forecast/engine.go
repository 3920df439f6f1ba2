package forecast

import (
	"errors"
	"sort"
	"time"

	"github.com/maishenyun/stockboard/internal/domain"
)

// Point is one projected period.
type Point struct {
	Period string  `json:"period"` // YYYY-MM
	Value  float64 `json:"value"`
}

// Result is the projection for one ingredient.
type Result struct {
	Ingredient string  `json:"ingredient"`
	Unit       string  `json:"unit"`
	Method     Method  `json:"method"`
	Points     []Point `json:"points"`
}

// ForecastSeries projects one usage series `horizon` months past its last
// observed period.
func ForecastSeries(method Method, s domain.UsageSeries, unit string, horizon int, cfg Config) (*Result, error) {
	if len(s.Records) == 0 {
		return nil, domain.ErrInsufficientData
	}

	values, err := Run(method, s.Values(), horizon, cfg)
	if err != nil {
		return nil, err
	}

	last := s.Records[len(s.Records)-1].Period
	points := make([]Point, horizon)
	for i, v := range values {
		points[i] = Point{
			Period: last.AddDate(0, i+1, 0).Format("2006-01"),
			Value:  v,
		}
	}

	return &Result{
		Ingredient: s.Ingredient,
		Unit:       unit,
		Method:     method,
		Points:     points,
	}, nil
}

// ForecastAll projects every series with the given method. Series too short
// for the method are collected in skipped instead of failing the batch;
// configuration errors fail it. Results come back sorted by ingredient.
func ForecastAll(method Method, series []domain.UsageSeries, units map[string]string, horizon int, cfg Config) (results []Result, skipped []string, err error) {
	for _, s := range series {
		res, err := ForecastSeries(method, s, units[s.Ingredient], horizon, cfg)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientData) {
				skipped = append(skipped, s.Ingredient)
				continue
			}
			return nil, nil, err
		}
		results = append(results, *res)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Ingredient < results[j].Ingredient })
	sort.Strings(skipped)
	return results, skipped, nil
}

// ProjectedValues flattens a result to the raw horizon values, for callers
// that feed projections into the reorder walk.
func (r *Result) ProjectedValues() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Value
	}
	return out
}

// SeriesStart reports the first projected period as a date, for callers that
// anchor day-level walks.
func (r *Result) SeriesStart() (time.Time, bool) {
	if len(r.Points) == 0 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01", r.Points[0].Period)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
