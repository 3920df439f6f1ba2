// Package menu plans menus against tracked inventory: ingredient
// requirements for a dish list, availability checks, menu comparisons,
// costing and substitution suggestions.
package menu

import (
	"sort"

	"github.com/maishenyun/stockboard/internal/domain"
)

// DefaultExpectedSales is the monthly sales volume assumed for a dish when
// the caller does not provide one.
const DefaultExpectedSales = 100

// Requirement is the total quantity of one ingredient a menu needs per month.
type Requirement struct {
	Ingredient string  `json:"ingredient"`
	Unit       string  `json:"unit,omitempty"`
	Quantity   float64 `json:"quantity"`
}

type trackedIngredient struct {
	name string
	unit string
}

// Planner answers menu questions against a recipe book and the tracked
// ingredient catalog. Ingredient and dish names are matched by normalized
// name, so recipe spellings do not have to agree with shipment spellings.
type Planner struct {
	recipes map[string]domain.Recipe
	tracked map[string]trackedIngredient
	display map[string]string
}

// NewPlanner indexes the recipe book. The catalog supplies canonical
// spellings and units for tracked ingredients; recipe-only ingredients keep
// their recipe spelling.
func NewPlanner(recipes []domain.Recipe, catalog []domain.Ingredient) *Planner {
	p := &Planner{
		recipes: make(map[string]domain.Recipe, len(recipes)),
		tracked: make(map[string]trackedIngredient, len(catalog)),
		display: make(map[string]string),
	}
	for _, ing := range catalog {
		key := domain.NormalizeName(ing.Name)
		p.tracked[key] = trackedIngredient{name: ing.Name, unit: ing.Unit}
		p.display[key] = ing.Name
	}

	sorted := append([]domain.Recipe(nil), recipes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Dish < sorted[j].Dish })
	for _, r := range sorted {
		p.recipes[domain.NormalizeName(r.Dish)] = r
		for ing := range r.Ingredients {
			key := domain.NormalizeName(ing)
			if _, ok := p.display[key]; !ok {
				p.display[key] = ing
			}
		}
	}
	return p
}

// Dishes returns the known dish names in sorted order.
func (p *Planner) Dishes() []string {
	out := make([]string, 0, len(p.recipes))
	for _, r := range p.recipes {
		out = append(out, r.Dish)
	}
	sort.Strings(out)
	return out
}

// Requirements totals the per-ingredient quantities a dish list needs for a
// month of expected sales. Dishes without a recipe are reported back in
// missing rather than failing the whole calculation. Results are sorted by
// quantity descending.
func (p *Planner) Requirements(dishes []string, sales map[string]int) (reqs []Requirement, missing []string) {
	totals := make(map[string]float64)

	for _, dish := range dishes {
		recipe, ok := p.recipes[domain.NormalizeName(dish)]
		if !ok {
			missing = append(missing, dish)
			continue
		}
		servings := DefaultExpectedSales
		if v, ok := sales[dish]; ok && v > 0 {
			servings = v
		}
		for ing, qty := range recipe.Ingredients {
			if qty <= 0 {
				continue
			}
			totals[domain.NormalizeName(ing)] += qty * float64(servings)
		}
	}

	reqs = make([]Requirement, 0, len(totals))
	for key, qty := range totals {
		if qty <= 0 {
			continue
		}
		r := Requirement{Ingredient: p.display[key], Quantity: qty}
		if t, ok := p.tracked[key]; ok {
			r.Unit = t.unit
		}
		reqs = append(reqs, r)
	}
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].Quantity != reqs[j].Quantity {
			return reqs[i].Quantity > reqs[j].Quantity
		}
		return reqs[i].Ingredient < reqs[j].Ingredient
	})
	return reqs, missing
}
