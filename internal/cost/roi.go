package cost

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/maishenyun/stockboard/internal/domain"
)

// ROIResult is the return on an inventory-process investment.
type ROIResult struct {
	Investment    decimal.Decimal `json:"investment"`
	AnnualSavings decimal.Decimal `json:"annual_savings"`
	ROIPct        float64         `json:"roi_pct"`
	PaybackMonths *float64        `json:"payback_months"` // nil when savings are not positive
}

// EvaluateROI computes (savings - investment) / investment as a percentage.
// A non-positive investment is rejected; division by zero is never silently
// produced.
func EvaluateROI(investment, annualSavings float64) (*ROIResult, error) {
	if investment <= 0 {
		return nil, fmt.Errorf("%w: investment must be positive, got %v", domain.ErrInvalidConfig, investment)
	}

	res := &ROIResult{
		Investment:    money(investment),
		AnnualSavings: money(annualSavings),
		ROIPct:        (annualSavings - investment) / investment * 100,
	}
	if annualSavings > 0 {
		payback := investment / (annualSavings / 12)
		res.PaybackMonths = &payback
	}
	return res, nil
}

// currencyRates values one USD in each supported currency. Rates are exact
// decimal constants, not floats.
var currencyRates = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("1"),
	"EUR": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("0.79"),
	"JPY": decimal.RequireFromString("149.50"),
}

// Currencies lists the supported codes in stable order.
func Currencies() []string {
	out := make([]string, 0, len(currencyRates))
	for code := range currencyRates {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Convert re-denominates an amount between supported currencies through the
// USD rate table, rounding to 2 decimal places at the end.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromRate, ok := currencyRates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown currency %q", domain.ErrInvalidConfig, from)
	}
	toRate, ok := currencyRates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown currency %q", domain.ErrInvalidConfig, to)
	}

	usd := amount.Div(fromRate)
	return usd.Mul(toRate).Round(2), nil
}
