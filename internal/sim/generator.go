// Package sim generates the deterministic demo fixture used when no real
// stock counts or unit costs are on disk. Everything it produces is labeled
// as simulated and stays labeled through the whole pipeline.
package sim

import (
	"math"
	"math/rand"

	"github.com/maishenyun/stockboard/internal/domain"
)

const (
	// stock level = qty per shipment x uniform factor in [0.5, 3.0)
	stockFactorMin = 0.5
	stockFactorMax = 3.0
	// unit cost uniform in [2.00, 50.00)
	unitCostMin = 2.0
	unitCostMax = 50.0

	// DefaultSeed keeps demo runs reproducible across restarts.
	DefaultSeed int64 = 42
)

// Generator produces fixture values from a fixed seed. Each output kind draws
// from its own seeded stream, so stock levels come out identical whether or
// not unit costs were generated first.
type Generator struct {
	seed int64
}

// New returns a generator for the seed; non-positive seeds fall back to
// DefaultSeed.
func New(seed int64) *Generator {
	if seed <= 0 {
		seed = DefaultSeed
	}
	return &Generator{seed: seed}
}

// StockLevels generates one labeled stock level per ingredient, in input
// order.
func (g *Generator) StockLevels(ingredients []domain.Ingredient) []domain.StockLevel {
	rng := rand.New(rand.NewSource(g.seed))
	out := make([]domain.StockLevel, len(ingredients))
	for i, ing := range ingredients {
		factor := uniform(rng, stockFactorMin, stockFactorMax)
		out[i] = domain.StockLevel{
			Ingredient: ing.Name,
			Quantity:   round2(ing.QtyPerShipment * factor),
			Source:     domain.StockSourceSimulation,
		}
	}
	return out
}

// UnitCosts generates one per-unit cost per ingredient, keyed by normalized
// name the same way the unit_costs.csv loader keys them.
func (g *Generator) UnitCosts(ingredients []domain.Ingredient) map[string]float64 {
	rng := rand.New(rand.NewSource(g.seed + 1))
	out := make(map[string]float64, len(ingredients))
	for _, ing := range ingredients {
		out[domain.NormalizeName(ing.Name)] = round2(uniform(rng, unitCostMin, unitCostMax))
	}
	return out
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
