package forecast

import (
	"errors"
	"fmt"

	"github.com/maishenyun/stockboard/internal/domain"
)

// Method identifies a projection estimator. The set is closed: dispatch goes
// through the estimators table, never through caller-supplied names.
type Method string

const (
	MethodMovingAverage         Method = "moving_average"
	MethodExponentialSmoothing  Method = "exponential_smoothing"
	MethodWeightedMovingAverage Method = "weighted_moving_average"
	MethodLinearRegression      Method = "linear_regression"
	MethodEnsemble              Method = "ensemble"
)

// Config tunes the estimators. Zero values fall back to the dashboard
// defaults (window 3, alpha 0.3, weights 0.5/0.3/0.2).
type Config struct {
	Window  int       // moving-average lookback
	Alpha   float64   // exponential smoothing factor, must be in (0, 1)
	Weights []float64 // weighted MA, most recent observation first
}

// DefaultConfig returns the standard estimator settings.
func DefaultConfig() Config {
	return Config{
		Window:  3,
		Alpha:   0.3,
		Weights: []float64{0.5, 0.3, 0.2},
	}
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = 3
	}
	if c.Alpha == 0 {
		c.Alpha = 0.3
	}
	if len(c.Weights) == 0 {
		c.Weights = []float64{0.5, 0.3, 0.2}
	}
	return c
}

// estimator produces a horizon-length projection from an observed series.
type estimator func(values []float64, horizon int, cfg Config) ([]float64, error)

// estimators is the closed dispatch table for Run.
var estimators = map[Method]estimator{
	MethodMovingAverage:         movingAverage,
	MethodExponentialSmoothing:  exponentialSmoothing,
	MethodWeightedMovingAverage: weightedMovingAverage,
	MethodLinearRegression:      linearRegression,
	MethodEnsemble:              ensemble,
}

// ensembleParts are the sub-methods the ensemble averages over.
var ensembleParts = []estimator{
	movingAverage,
	exponentialSmoothing,
	weightedMovingAverage,
	linearRegression,
}

// Methods returns the supported method names in display order.
func Methods() []Method {
	return []Method{
		MethodMovingAverage,
		MethodExponentialSmoothing,
		MethodWeightedMovingAverage,
		MethodLinearRegression,
		MethodEnsemble,
	}
}

// ParseMethod resolves a request parameter to a Method.
func ParseMethod(raw string) (Method, bool) {
	m := Method(raw)
	_, ok := estimators[m]
	return m, ok
}

// Run projects the series `horizon` periods forward with the given method.
// Series too short for the method return domain.ErrInsufficientData; bad
// parameters return domain.ErrInvalidConfig.
func Run(method Method, values []float64, horizon int, cfg Config) ([]float64, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", domain.ErrInvalidConfig, horizon)
	}

	fn, ok := estimators[method]
	if !ok {
		return nil, fmt.Errorf("%w: unknown forecast method %q", domain.ErrInvalidConfig, method)
	}

	return fn(values, horizon, cfg.withDefaults())
}

// movingAverage projects the mean of the last `window` observations, flat
// across the horizon.
func movingAverage(values []float64, horizon int, cfg Config) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: moving average needs at least one observation", domain.ErrInsufficientData)
	}

	window := cfg.Window
	if window > len(values) {
		window = len(values)
	}

	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}

	return flat(sum/float64(window), horizon), nil
}

// exponentialSmoothing runs simple exponential smoothing seeded with the
// first observation and projects the final smoothed level flat.
func exponentialSmoothing(values []float64, horizon int, cfg Config) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: exponential smoothing needs at least one observation", domain.ErrInsufficientData)
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return nil, fmt.Errorf("%w: alpha must be in (0, 1), got %v", domain.ErrInvalidConfig, cfg.Alpha)
	}

	level := values[0]
	for _, v := range values[1:] {
		level = cfg.Alpha*v + (1-cfg.Alpha)*level
	}

	return flat(level, horizon), nil
}

// weightedMovingAverage weights the most recent observations, Weights[0]
// applying to the latest. Weights are normalized internally so callers may
// pass any positive vector.
func weightedMovingAverage(values []float64, horizon int, cfg Config) ([]float64, error) {
	k := len(cfg.Weights)
	if len(values) < k {
		return nil, fmt.Errorf("%w: weighted moving average needs %d observations, have %d",
			domain.ErrInsufficientData, k, len(values))
	}

	var weightSum float64
	for _, w := range cfg.Weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: weights must be non-negative", domain.ErrInvalidConfig)
		}
		weightSum += w
	}
	if weightSum <= 0 {
		return nil, fmt.Errorf("%w: weights must sum to a positive value", domain.ErrInvalidConfig)
	}

	var acc float64
	for i, w := range cfg.Weights {
		acc += w / weightSum * values[len(values)-1-i]
	}

	return flat(acc, horizon), nil
}

// linearRegression fits slope/intercept by ordinary least squares over
// (index, value) pairs and extrapolates. With fewer than two points it falls
// back to a last-value projection. Negative extrapolations clamp to zero.
func linearRegression(values []float64, horizon int, cfg Config) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: linear regression needs at least one observation", domain.ErrInsufficientData)
	}
	if len(values) < 2 {
		return flat(values[0], horizon), nil
	}

	n := float64(len(values))
	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return flat(values[len(values)-1], horizon), nil
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		x := n + float64(h)
		v := intercept + slope*x
		if v < 0 {
			v = 0
		}
		out[h] = v
	}

	return out, nil
}

// ensemble averages every sub-method that can run on the series. Methods
// short on data are skipped rather than failing the whole projection; a
// configuration error still fails it.
func ensemble(values []float64, horizon int, cfg Config) ([]float64, error) {
	var parts [][]float64
	for _, fn := range ensembleParts {
		proj, err := fn(values, horizon, cfg)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientData) {
				continue
			}
			return nil, err
		}
		parts = append(parts, proj)
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no forecast method applicable to series of %d observations",
			domain.ErrInsufficientData, len(values))
	}

	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		var sum float64
		for _, p := range parts {
			sum += p[h]
		}
		out[h] = sum / float64(len(parts))
	}

	return out, nil
}

func flat(v float64, horizon int) []float64 {
	out := make([]float64, horizon)
	for i := range out {
		out[i] = v
	}
	return out
}
