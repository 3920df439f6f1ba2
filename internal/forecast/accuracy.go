package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/maishenyun/stockboard/internal/domain"
)

// Accuracy reports backtest error for one method. MAPE is nil when every
// held-out actual is zero, since percentage error is undefined there.
type Accuracy struct {
	Method  Method   `json:"method"`
	MAE     float64  `json:"mae"`
	MAPE    *float64 `json:"mape,omitempty"`
	RMSE    float64  `json:"rmse"`
	Holdout int      `json:"holdout_periods"`
}

// Evaluate backtests a method: it fits on all but the last `holdout`
// observations, projects the held-out stretch, and scores the projection
// against the actuals.
func Evaluate(method Method, values []float64, holdout int, cfg Config) (*Accuracy, error) {
	if holdout <= 0 {
		return nil, fmt.Errorf("%w: holdout must be positive, got %d", domain.ErrInvalidConfig, holdout)
	}
	if len(values) <= holdout {
		return nil, fmt.Errorf("%w: need more than %d observations to hold out %d",
			domain.ErrInsufficientData, holdout, holdout)
	}

	train := values[:len(values)-holdout]
	actuals := values[len(values)-holdout:]

	predicted, err := Run(method, train, holdout, cfg)
	if err != nil {
		return nil, err
	}

	acc := &Accuracy{Method: method, Holdout: holdout}
	acc.MAE, acc.MAPE, acc.RMSE = score(actuals, predicted)
	return acc, nil
}

// EvaluateAll backtests every supported method on the series. Methods that
// cannot run on the training stretch are skipped.
func EvaluateAll(values []float64, holdout int, cfg Config) ([]Accuracy, error) {
	var out []Accuracy
	for _, m := range Methods() {
		acc, err := Evaluate(m, values, holdout, cfg)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientData) {
				continue
			}
			return nil, err
		}
		out = append(out, *acc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no method evaluable on series of %d observations",
			domain.ErrInsufficientData, len(values))
	}
	return out, nil
}

func score(actuals, predicted []float64) (mae float64, mape *float64, rmse float64) {
	n := len(actuals)
	var absSum, sqSum, pctSum float64
	pctCount := 0

	for i := 0; i < n; i++ {
		diff := actuals[i] - predicted[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		if actuals[i] != 0 {
			pctSum += math.Abs(diff) / math.Abs(actuals[i])
			pctCount++
		}
	}

	mae = absSum / float64(n)
	rmse = math.Sqrt(sqSum / float64(n))
	if pctCount > 0 {
		v := pctSum / float64(pctCount) * 100
		mape = &v
	}
	return mae, mape, rmse
}
