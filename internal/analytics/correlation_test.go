package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maishenyun/stockboard/internal/domain"
)

func TestCorrelationsPerfectPositiveAndNegative(t *testing.T) {
	series := []domain.UsageSeries{
		seriesOf("a", 1, 2, 3),
		seriesOf("b", 2, 4, 6),
		seriesOf("c", 6, 4, 2),
	}

	m := Correlations(series)
	require.Equal(t, []string{"a", "b", "c"}, m.Ingredients)

	ab := m.Cells[0][1]
	require.NotNil(t, ab)
	assert.InDelta(t, 1.0, *ab, 1e-9)

	ac := m.Cells[0][2]
	require.NotNil(t, ac)
	assert.InDelta(t, -1.0, *ac, 1e-9)

	aa := m.Cells[0][0]
	require.NotNil(t, aa)
	assert.InDelta(t, 1.0, *aa, 1e-9)
}

func TestCorrelationsUndefinedOnShortOverlap(t *testing.T) {
	a := seriesOf("a", 1, 2, 3) // Jan..Mar
	b := domain.UsageSeries{
		Ingredient: "b",
		Records: []domain.UsageRecord{
			{Ingredient: "b", Period: month(2025, time.March), Quantity: 9},
		},
	}

	m := Correlations([]domain.UsageSeries{a, b})
	assert.Nil(t, m.Cells[0][1], "single shared period is undefined")
}

func TestCorrelationsUndefinedOnZeroVariance(t *testing.T) {
	a := seriesOf("a", 1, 2, 3)
	flat := seriesOf("flat", 5, 5, 5)

	m := Correlations([]domain.UsageSeries{a, flat})
	assert.Nil(t, m.Cells[0][1], "constant series has no defined correlation")
	assert.Nil(t, m.Cells[1][1], "even with itself")
}

func TestCorrelationsSymmetric(t *testing.T) {
	series := []domain.UsageSeries{
		seriesOf("a", 1, 5, 2),
		seriesOf("b", 4, 1, 8),
	}

	m := Correlations(series)
	require.NotNil(t, m.Cells[0][1])
	require.NotNil(t, m.Cells[1][0])
	assert.Equal(t, *m.Cells[0][1], *m.Cells[1][0])
}
