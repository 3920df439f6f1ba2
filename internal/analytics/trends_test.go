package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maishenyun/stockboard/internal/domain"
)

func TestTrendStatistics(t *testing.T) {
	st, err := Trend(seriesOf("flour", 10, 20, 30, 40))
	require.NoError(t, err)

	assert.Equal(t, 4, st.Periods)
	assert.InDelta(t, 25.0, st.Mean, 1e-9)
	assert.InDelta(t, 25.0, st.Median, 1e-9)
	assert.InDelta(t, 10.0, st.Min, 1e-9)
	assert.InDelta(t, 40.0, st.Max, 1e-9)
	assert.InDelta(t, 12.9099444, st.StdDev, 1e-6)
	require.NotNil(t, st.CV)
	assert.True(t, st.Volatile)
	assert.Equal(t, TrendIncreasing, st.Direction)
}

func TestTrendDirections(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   TrendDirection
	}{
		{"decreasing", []float64{40, 30, 20, 10}, TrendDecreasing},
		{"flat", []float64{10, 10, 10, 10}, TrendStable},
		{"within band", []float64{100, 100, 105, 105}, TrendStable},
		{"from zero", []float64{0, 0, 5, 5}, TrendIncreasing},
		{"single point", []float64{7}, TrendStable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := Trend(seriesOf("x", tc.values...))
			require.NoError(t, err)
			assert.Equal(t, tc.want, st.Direction)
		})
	}
}

func TestTrendFlatSeriesNotVolatile(t *testing.T) {
	st, err := Trend(seriesOf("salt", 10, 10, 10))
	require.NoError(t, err)
	assert.False(t, st.Volatile)
	require.NotNil(t, st.CV)
	assert.InDelta(t, 0.0, *st.CV, 1e-9)
}

func TestTrendZeroMeanCVUndefined(t *testing.T) {
	st, err := Trend(seriesOf("unused", 0, 0))
	require.NoError(t, err)
	assert.Nil(t, st.CV)
	assert.False(t, st.Volatile)
}

func TestTrendEmptySeries(t *testing.T) {
	_, err := Trend(domain.UsageSeries{Ingredient: "ghost"})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestTrendOddMedian(t *testing.T) {
	st, err := Trend(seriesOf("x", 3, 1, 2))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, st.Median, 1e-9)
}

func TestSeasonalMatrixSumsAcrossYears(t *testing.T) {
	s := domain.UsageSeries{
		Ingredient: "basil",
		Records: []domain.UsageRecord{
			{Ingredient: "basil", Period: month(2024, time.January), Quantity: 3},
			{Ingredient: "basil", Period: month(2025, time.January), Quantity: 4},
			{Ingredient: "basil", Period: month(2025, time.July), Quantity: 10},
		},
	}

	rows := Seasonal([]domain.UsageSeries{s})
	require.Len(t, rows, 1)

	assert.InDelta(t, 7.0, rows[0].Monthly[0], 1e-9, "January sums both years")
	assert.InDelta(t, 10.0, rows[0].Monthly[6], 1e-9)
	require.NotNil(t, rows[0].Peak)
	assert.Equal(t, time.July, *rows[0].Peak)
}

func TestSeasonalNoUsageNoPeak(t *testing.T) {
	rows := Seasonal([]domain.UsageSeries{{Ingredient: "ghost"}})
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Peak)
}
