package menu

import (
	"sort"

	"github.com/maishenyun/stockboard/internal/domain"
)

// Substitute is an alternative ingredient ranked by how similarly it is used
// across the recipe book.
type Substitute struct {
	Ingredient   string  `json:"ingredient"`
	SharedDishes int     `json:"shared_dishes"`
	TotalDishes  int     `json:"total_dishes"`
	Similarity   float64 `json:"similarity"`
}

const defaultSubstituteLimit = 5

// Substitutions suggests replacements for an ingredient by Jaccard
// similarity of the dish sets using each ingredient. Ingredients appearing
// in none of the same dishes are omitted. When no dish uses the ingredient
// there is nothing to rank and ErrInsufficientData is returned. A limit of
// zero or less means the default of five.
func (p *Planner) Substitutions(ingredient string, limit int) ([]Substitute, error) {
	if limit <= 0 {
		limit = defaultSubstituteLimit
	}

	dishSets := make(map[string]map[string]struct{})
	for dishKey, recipe := range p.recipes {
		for ing, qty := range recipe.Ingredients {
			if qty <= 0 {
				continue
			}
			key := domain.NormalizeName(ing)
			if dishSets[key] == nil {
				dishSets[key] = make(map[string]struct{})
			}
			dishSets[key][dishKey] = struct{}{}
		}
	}

	target := domain.NormalizeName(ingredient)
	targetSet, ok := dishSets[target]
	if !ok || len(targetSet) == 0 {
		return nil, domain.ErrInsufficientData
	}

	var out []Substitute
	for key, set := range dishSets {
		if key == target {
			continue
		}
		shared := 0
		for dish := range set {
			if _, ok := targetSet[dish]; ok {
				shared++
			}
		}
		if shared == 0 {
			continue
		}
		union := len(targetSet) + len(set) - shared
		out = append(out, Substitute{
			Ingredient:   p.display[key],
			SharedDishes: shared,
			TotalDishes:  len(set),
			Similarity:   float64(shared) / float64(union),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		if out[i].SharedDishes != out[j].SharedDishes {
			return out[i].SharedDishes > out[j].SharedDishes
		}
		return out[i].Ingredient < out[j].Ingredient
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
