package sim

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maishenyun/stockboard/internal/domain"
)

var fixtureIngredients = []domain.Ingredient{
	{Name: "Flour", Unit: "kg", QtyPerShipment: 40, ShipmentsPerMonth: 3, Frequency: domain.FrequencyWeekly},
	{Name: "Olive Oil", Unit: "l", QtyPerShipment: 10, ShipmentsPerMonth: 2, Frequency: domain.FrequencyBiweekly},
	{Name: "Tomato", Unit: "kg", QtyPerShipment: 12, ShipmentsPerMonth: 4, Frequency: domain.FrequencyDaily},
}

func TestStockLevelsDeterministicForSeed(t *testing.T) {
	a := New(42).StockLevels(fixtureIngredients)
	b := New(42).StockLevels(fixtureIngredients)
	assert.Equal(t, a, b)

	c := New(7).StockLevels(fixtureIngredients)
	assert.NotEqual(t, a, c)
}

func TestStockLevelsWithinFactorBounds(t *testing.T) {
	levels := New(42).StockLevels(fixtureIngredients)
	require.Len(t, levels, len(fixtureIngredients))

	for i, lvl := range levels {
		assert.Equal(t, domain.StockSourceSimulation, lvl.Source)
		factor := lvl.Quantity / fixtureIngredients[i].QtyPerShipment
		assert.GreaterOrEqual(t, factor, stockFactorMin-0.01, "%s", lvl.Ingredient)
		assert.Less(t, factor, stockFactorMax+0.01, "%s", lvl.Ingredient)
	}
}

func TestStockLevelsIndependentOfUnitCostDraws(t *testing.T) {
	plain := New(42).StockLevels(fixtureIngredients)

	g := New(42)
	g.UnitCosts(fixtureIngredients)
	after := g.StockLevels(fixtureIngredients)

	assert.Equal(t, plain, after)
}

func TestUnitCostsWithinBounds(t *testing.T) {
	costs := New(42).UnitCosts(fixtureIngredients)
	require.Len(t, costs, len(fixtureIngredients))

	for name, cost := range costs {
		assert.GreaterOrEqual(t, cost, unitCostMin, "%s", name)
		assert.Less(t, cost, unitCostMax, "%s", name)
		assert.Equal(t, name, domain.NormalizeName(name), "keys are normalized")
	}
}

func TestWriteFixtures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFixtures(dir, fixtureIngredients, 42))

	assert.FileExists(t, filepath.Join(dir, "stock_levels.csv"))
	assert.FileExists(t, filepath.Join(dir, "unit_costs.csv"))
}
