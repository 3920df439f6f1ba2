package menu

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maishenyun/stockboard/internal/domain"
)

func testPlanner() *Planner {
	recipes := []domain.Recipe{
		{Dish: "Beef Noodle Soup", Ingredients: map[string]float64{
			"beef":        0.2,
			"noodles":     0.15,
			"green_onion": 0.02,
		}},
		{Dish: "Chicken Rice", Ingredients: map[string]float64{
			"chicken":     0.18,
			"rice":        0.2,
			"green_onion": 0.01,
		}},
		{Dish: "Fried Rice", Ingredients: map[string]float64{
			"rice":        0.25,
			"egg":         1,
			"green_onion": 0.02,
		}},
	}
	catalog := []domain.Ingredient{
		{Name: "Beef", Unit: "kg"},
		{Name: "Rice", Unit: "kg"},
		{Name: "Green Onion", Unit: "kg"},
	}
	return NewPlanner(recipes, catalog)
}

func TestRequirementsDefaultSales(t *testing.T) {
	reqs, missing := testPlanner().Requirements([]string{"Beef Noodle Soup", "Fried Rice"}, nil)

	require.Empty(t, missing)
	require.Len(t, reqs, 5)

	assert.Equal(t, Requirement{Ingredient: "egg", Quantity: 100}, reqs[0])
	assert.Equal(t, Requirement{Ingredient: "Rice", Unit: "kg", Quantity: 25}, reqs[1])
	assert.Equal(t, Requirement{Ingredient: "Beef", Unit: "kg", Quantity: 20}, reqs[2])
	assert.Equal(t, Requirement{Ingredient: "noodles", Quantity: 15}, reqs[3])
	assert.Equal(t, Requirement{Ingredient: "Green Onion", Unit: "kg", Quantity: 4}, reqs[4])
}

func TestRequirementsSalesOverride(t *testing.T) {
	reqs, _ := testPlanner().Requirements([]string{"Fried Rice"}, map[string]int{"Fried Rice": 50})

	require.Len(t, reqs, 3)
	assert.Equal(t, "egg", reqs[0].Ingredient)
	assert.Equal(t, 50.0, reqs[0].Quantity)
	assert.Equal(t, 12.5, reqs[1].Quantity)
}

func TestRequirementsMatchesNormalizedDishNames(t *testing.T) {
	reqs, missing := testPlanner().Requirements([]string{"beef noodle soup"}, nil)

	assert.Empty(t, missing)
	assert.Len(t, reqs, 3)
}

func TestRequirementsReportsUnknownDishes(t *testing.T) {
	reqs, missing := testPlanner().Requirements([]string{"Pad Thai"}, nil)

	assert.Empty(t, reqs)
	assert.Equal(t, []string{"Pad Thai"}, missing)
}

func TestAvailability(t *testing.T) {
	p := testPlanner()
	reqs, _ := p.Requirements([]string{"Beef Noodle Soup", "Fried Rice"}, nil)

	stocks := map[string]float64{
		"beef":        5,   // short 15 of 20, beyond half
		"rice":        24,  // short 1 of 25
		"green onion": 4.5, // covered with a thin buffer
		"egg":         200, // comfortably covered
	}

	got := p.Availability(reqs, stocks)

	assert.Equal(t, StatusCritical, got.Status)
	require.Len(t, got.Issues, 2)

	assert.Equal(t, "Beef", got.Issues[0].Ingredient)
	assert.Equal(t, 15.0, got.Issues[0].Shortage)
	assert.Equal(t, SeverityCritical, got.Issues[0].Severity)

	assert.Equal(t, "Rice", got.Issues[1].Ingredient)
	assert.Equal(t, SeverityModerate, got.Issues[1].Severity)

	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "Green Onion", got.Warnings[0].Ingredient)
	assert.InDelta(t, 0.5, got.Warnings[0].Buffer, 1e-9)
}

func TestAvailabilityOKWhenCovered(t *testing.T) {
	p := testPlanner()
	reqs, _ := p.Requirements([]string{"Fried Rice"}, nil)

	stocks := map[string]float64{"rice": 100, "egg": 500, "green onion": 50}

	got := p.Availability(reqs, stocks)
	assert.Equal(t, StatusOK, got.Status)
	assert.Empty(t, got.Issues)
	assert.Empty(t, got.Warnings)
}

func TestCompare(t *testing.T) {
	p := testPlanner()

	got := p.Compare(
		[]string{"Beef Noodle Soup"},
		[]string{"Beef Noodle Soup", "Fried Rice"},
		nil, nil,
	)

	assert.Equal(t, []string{"Fried Rice"}, got.Added)
	assert.Empty(t, got.Removed)
	assert.Equal(t, []string{"Beef Noodle Soup"}, got.Shared)

	require.Len(t, got.Changes, 5)
	assert.Equal(t, RequirementChange{Ingredient: "egg", Current: 0, Planned: 100, Delta: 100, DeltaPct: 100}, got.Changes[0])
	assert.Equal(t, RequirementChange{Ingredient: "Rice", Current: 0, Planned: 25, Delta: 25, DeltaPct: 100}, got.Changes[1])
	assert.Equal(t, RequirementChange{Ingredient: "Green Onion", Current: 2, Planned: 4, Delta: 2, DeltaPct: 100}, got.Changes[2])
	assert.Equal(t, "Beef", got.Changes[3].Ingredient)
	assert.Zero(t, got.Changes[3].Delta)
}

func TestCost(t *testing.T) {
	p := testPlanner()

	got := p.Cost([]string{"Fried Rice"}, nil, map[string]float64{"rice": 2.5, "egg": 0.3}, 5)

	assert.True(t, got.Total.Equal(decimal.RequireFromString("102.5")), "total = %s", got.Total)
	assert.True(t, got.PerDish.Equal(decimal.RequireFromString("102.5")))

	require.Len(t, got.Breakdown, 3)
	assert.Equal(t, "Rice", got.Breakdown[0].Ingredient)
	assert.True(t, got.Breakdown[0].Total.Equal(decimal.RequireFromString("62.5")))
	assert.Equal(t, "egg", got.Breakdown[1].Ingredient)
	assert.Equal(t, "Green Onion", got.Breakdown[2].Ingredient)
	assert.True(t, got.Breakdown[2].Total.Equal(decimal.RequireFromString("10")))
}

func TestCostEmptyMenu(t *testing.T) {
	got := testPlanner().Cost(nil, nil, nil, 5)

	assert.True(t, got.Total.IsZero())
	assert.True(t, got.PerDish.IsZero())
	assert.Empty(t, got.Breakdown)
}

func TestSubstitutions(t *testing.T) {
	got, err := testPlanner().Substitutions("Green Onion", 0)
	require.NoError(t, err)
	require.Len(t, got, 5)

	top := got[0]
	assert.Equal(t, "Rice", top.Ingredient)
	assert.Equal(t, 2, top.SharedDishes)
	assert.Equal(t, 2, top.TotalDishes)
	assert.InDelta(t, 2.0/3.0, top.Similarity, 1e-9)

	// The rest tie at 1/3 and fall back to name order.
	assert.Equal(t, "Beef", got[1].Ingredient)
	assert.Equal(t, "chicken", got[2].Ingredient)
	assert.Equal(t, "egg", got[3].Ingredient)
	assert.Equal(t, "noodles", got[4].Ingredient)
}

func TestSubstitutionsLimit(t *testing.T) {
	got, err := testPlanner().Substitutions("green onion", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rice", got[0].Ingredient)
}

func TestSubstitutionsUnknownIngredient(t *testing.T) {
	_, err := testPlanner().Substitutions("saffron", 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestDishes(t *testing.T) {
	assert.Equal(t,
		[]string{"Beef Noodle Soup", "Chicken Rice", "Fried Rice"},
		testPlanner().Dishes())
}
