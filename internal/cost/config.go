// Package cost prices the inventory: EOQ order sizing, spend trends, waste
// estimates, ROI checks and currency conversion. Money amounts are
// shopspring decimals; only dimensionless math stays in float64.
package cost

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maishenyun/stockboard/internal/domain"
)

// Config tunes the cost engine. Zero values take the documented defaults.
type Config struct {
	OrderingCost    float64 // fixed cost per purchase order
	HoldingRate     float64 // annual holding cost as a fraction of unit cost
	DefaultUnitCost float64 // fallback when no unit cost is known
}

// DefaultConfig returns the standard cost parameters.
func DefaultConfig() Config {
	return Config{
		OrderingCost:    50,
		HoldingRate:     0.25,
		DefaultUnitCost: 5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.OrderingCost == 0 {
		c.OrderingCost = d.OrderingCost
	}
	if c.HoldingRate == 0 {
		c.HoldingRate = d.HoldingRate
	}
	if c.DefaultUnitCost == 0 {
		c.DefaultUnitCost = d.DefaultUnitCost
	}
	return c
}

// unitCost resolves an ingredient's per-unit cost with the default fallback.
func (c Config) unitCost(costs map[string]float64, ingredient string) float64 {
	if v, ok := costs[domain.NormalizeName(ingredient)]; ok {
		return v
	}
	return c.DefaultUnitCost
}

// Category is the waste-heuristic grouping of ingredients.
type Category string

const (
	CategoryPerishables Category = "perishables"
	CategoryProteins    Category = "proteins"
	CategoryDryGoods    Category = "dry_goods"
	CategoryOther       Category = "other"
)

// CategoryWastePct is the expected waste fraction per category.
var CategoryWastePct = map[Category]float64{
	CategoryPerishables: 0.05,
	CategoryProteins:    0.03,
	CategoryDryGoods:    0.01,
	CategoryOther:       0.02,
}

var categoryKeywords = map[Category][]string{
	CategoryProteins: {
		"beef", "chicken", "pork", "fish", "salmon", "tuna", "shrimp",
		"lamb", "turkey", "egg", "tofu",
	},
	CategoryPerishables: {
		"tomato", "lettuce", "spinach", "basil", "herb", "milk", "cream",
		"cheese", "butter", "yogurt", "mushroom", "berry", "lemon", "lime",
		"onion", "garlic", "pepper", "avocado",
	},
	CategoryDryGoods: {
		"flour", "rice", "pasta", "sugar", "salt", "bean", "lentil",
		"oat", "noodle", "spice", "oil", "vinegar",
	},
}

// Categorize assigns an ingredient to a waste category by name keywords.
func Categorize(ingredient string) Category {
	name := strings.ToLower(ingredient)
	for _, cat := range []Category{CategoryProteins, CategoryPerishables, CategoryDryGoods} {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(name, kw) {
				return cat
			}
		}
	}
	return CategoryOther
}

// money converts a float amount to a 2-dp decimal for presentation.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
