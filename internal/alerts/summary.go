package alerts

import (
	"fmt"
	"sort"
	"time"
)

// Summary condenses an alert set into dashboard counters and a short list of
// plain-language findings.
type Summary struct {
	Total       int              `json:"total"`
	ByPriority  map[Priority]int `json:"by_priority"`
	ByCategory  map[Category]int `json:"by_category"`
	Insights    []string         `json:"insights"`
	GeneratedAt time.Time        `json:"generated_at"`
}

const maxInsights = 3

// Summarize counts alerts per priority and category and derives up to three
// insight lines, most urgent first.
func Summarize(alerts []Alert, now time.Time) Summary {
	s := Summary{
		ByPriority:  make(map[Priority]int),
		ByCategory:  make(map[Category]int),
		GeneratedAt: now,
	}
	for _, a := range alerts {
		s.Total++
		s.ByPriority[a.Priority]++
		s.ByCategory[a.Category]++
	}
	s.Insights = insights(alerts, s)
	return s
}

// insights ranks one candidate line per alert category and keeps the top
// three by how urgent the category's findings are.
func insights(alerts []Alert, s Summary) []string {
	type candidate struct {
		rank int
		line string
	}
	var cands []candidate

	if n := s.ByCategory[CategoryStockout]; n > 0 {
		rank := bestRank(alerts, CategoryStockout)
		first := firstOf(alerts, CategoryStockout)
		cands = append(cands, candidate{rank, fmt.Sprintf("%d %s at risk of stockout; %s is the most urgent", n, plural(n, "ingredient"), first.Ingredient)})
	}
	if n := s.ByCategory[CategorySpike]; n > 0 {
		rank := bestRank(alerts, CategorySpike)
		first := firstOf(alerts, CategorySpike)
		cands = append(cands, candidate{rank, fmt.Sprintf("consumption spike detected for %s (%d %s affected)", first.Ingredient, n, plural(n, "ingredient"))})
	}
	if n := s.ByCategory[CategoryDrop]; n > 0 {
		rank := bestRank(alerts, CategoryDrop)
		first := firstOf(alerts, CategoryDrop)
		cands = append(cands, candidate{rank, fmt.Sprintf("consumption dropped sharply for %s (%d %s affected)", first.Ingredient, n, plural(n, "ingredient"))})
	}
	if n := s.ByCategory[CategoryOverstock]; n > 0 {
		cands = append(cands, candidate{priorityRank[PriorityMedium], fmt.Sprintf("%d %s overstocked beyond the target cover", n, plural(n, "ingredient"))})
	}
	if n := s.ByCategory[CategoryReorder]; n > 0 {
		cands = append(cands, candidate{priorityRank[PriorityInfo], fmt.Sprintf("%d %s entering the reorder window", n, plural(n, "ingredient"))})
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].rank < cands[j].rank })
	if len(cands) > maxInsights {
		cands = cands[:maxInsights]
	}

	lines := make([]string, 0, len(cands))
	for _, c := range cands {
		lines = append(lines, c.line)
	}
	return lines
}

// bestRank returns the tightest priority rank present for a category.
func bestRank(alerts []Alert, cat Category) int {
	best := priorityRank[PriorityInfo] + 1
	for _, a := range alerts {
		if a.Category != cat {
			continue
		}
		if r := priorityRank[a.Priority]; r < best {
			best = r
		}
	}
	return best
}

// firstOf relies on Evaluate's ordering: the first match is the most urgent.
func firstOf(alerts []Alert, cat Category) Alert {
	for _, a := range alerts {
		if a.Category == cat {
			return a
		}
	}
	return Alert{}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
