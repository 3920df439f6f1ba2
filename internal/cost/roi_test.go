package cost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maishenyun/stockboard/internal/domain"
)

func TestEvaluateROI(t *testing.T) {
	res, err := EvaluateROI(10000, 15000)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, res.ROIPct, 1e-9)
	require.NotNil(t, res.PaybackMonths)
	assert.InDelta(t, 8.0, *res.PaybackMonths, 1e-9)
}

func TestEvaluateROINegativeSavings(t *testing.T) {
	res, err := EvaluateROI(10000, -5000)
	require.NoError(t, err)
	assert.InDelta(t, -150.0, res.ROIPct, 1e-9)
	assert.Nil(t, res.PaybackMonths, "no payback when savings are negative")
}

func TestEvaluateROIRejectsNonPositiveInvestment(t *testing.T) {
	for _, investment := range []float64{0, -100} {
		_, err := EvaluateROI(investment, 1000)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig, "investment %v", investment)
	}
}

func TestConvert(t *testing.T) {
	hundred := decimal.RequireFromString("100")

	eur, err := Convert(hundred, "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, eur.Equal(decimal.RequireFromString("92")), "got %s", eur)

	jpy, err := Convert(hundred, "USD", "JPY")
	require.NoError(t, err)
	assert.True(t, jpy.Equal(decimal.RequireFromString("14950")), "got %s", jpy)

	back, err := Convert(decimal.RequireFromString("92"), "EUR", "USD")
	require.NoError(t, err)
	assert.True(t, back.Equal(hundred), "got %s", back)
}

func TestConvertUnknownCurrency(t *testing.T) {
	_, err := Convert(decimal.RequireFromString("1"), "USD", "XYZ")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = Convert(decimal.RequireFromString("1"), "XYZ", "USD")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestCurrenciesStableOrder(t *testing.T) {
	assert.Equal(t, []string{"EUR", "GBP", "JPY", "USD"}, Currencies())
}
