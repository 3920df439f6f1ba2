package menu

import (
	"math"
	"sort"
)

// RequirementChange is the per-ingredient delta between two menus.
type RequirementChange struct {
	Ingredient string  `json:"ingredient"`
	Current    float64 `json:"current"`
	Planned    float64 `json:"planned"`
	Delta      float64 `json:"delta"`
	DeltaPct   float64 `json:"delta_pct"`
}

// MenuDiff describes what changes when moving from one dish list to another.
type MenuDiff struct {
	Added   []string            `json:"added"`
	Removed []string            `json:"removed"`
	Shared  []string            `json:"shared"`
	Changes []RequirementChange `json:"changes"`
}

// Compare diffs two menus: which dishes come and go, and how each
// ingredient's requirement shifts. Ingredients new to the planned menu
// report a 100% increase. Changes are sorted by absolute delta descending.
func (p *Planner) Compare(current, planned []string, currentSales, plannedSales map[string]int) MenuDiff {
	curReqs, _ := p.Requirements(current, currentSales)
	plnReqs, _ := p.Requirements(planned, plannedSales)

	cur := make(map[string]float64, len(curReqs))
	for _, r := range curReqs {
		cur[r.Ingredient] = r.Quantity
	}
	pln := make(map[string]float64, len(plnReqs))
	for _, r := range plnReqs {
		pln[r.Ingredient] = r.Quantity
	}

	names := make(map[string]struct{}, len(cur)+len(pln))
	for name := range cur {
		names[name] = struct{}{}
	}
	for name := range pln {
		names[name] = struct{}{}
	}

	diff := MenuDiff{
		Added:   subtractSet(planned, current),
		Removed: subtractSet(current, planned),
		Shared:  intersectSet(current, planned),
	}

	for name := range names {
		c, pl := cur[name], pln[name]
		delta := pl - c
		pct := 100.0
		if c > 0 {
			pct = delta / c * 100
		}
		diff.Changes = append(diff.Changes, RequirementChange{
			Ingredient: name,
			Current:    c,
			Planned:    pl,
			Delta:      delta,
			DeltaPct:   pct,
		})
	}
	sort.Slice(diff.Changes, func(i, j int) bool {
		ai, aj := math.Abs(diff.Changes[i].Delta), math.Abs(diff.Changes[j].Delta)
		if ai != aj {
			return ai > aj
		}
		return diff.Changes[i].Ingredient < diff.Changes[j].Ingredient
	})
	return diff
}

// subtractSet returns the members of a not present in b, sorted.
func subtractSet(a, b []string) []string {
	drop := make(map[string]struct{}, len(b))
	for _, s := range b {
		drop[s] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		if _, ok := drop[s]; ok {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// intersectSet returns the members present in both lists, sorted.
func intersectSet(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		if _, ok := in[s]; !ok {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
