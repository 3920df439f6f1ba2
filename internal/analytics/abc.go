// Package analytics derives usage-pattern views from the loaded dataset:
// ABC value classification, correlation, seasonality, trends, turnover and
// stockout risk. Everything here is pure computation over domain values.
package analytics

import (
	"sort"

	"github.com/maishenyun/stockboard/internal/domain"
)

// ABCClass buckets ingredients by cumulative share of total usage value.
type ABCClass string

const (
	ClassA ABCClass = "A" // top ~80% of value
	ClassB ABCClass = "B" // next ~15%
	ClassC ABCClass = "C" // long tail
)

// ABCItem is one classified ingredient.
type ABCItem struct {
	Ingredient string   `json:"ingredient"`
	TotalValue float64  `json:"total_value"`
	SharePct   float64  `json:"share_pct"`
	CumPct     float64  `json:"cumulative_pct"`
	Class      ABCClass `json:"class"`
}

// abc cumulative thresholds in percent.
const (
	abcClassALimit = 80.0
	abcClassBLimit = 95.0
)

// ClassifyABC ranks ingredients by total historical usage value and assigns
// cumulative-share classes. Ties keep their input order, so classification is
// stable across refreshes of identical data. The highest-value item is always
// class A even when it alone exceeds the A threshold.
func ClassifyABC(series []domain.UsageSeries, unitCosts map[string]float64, defaultCost float64) []ABCItem {
	items := make([]ABCItem, 0, len(series))
	var grand float64

	for _, s := range series {
		cost, ok := unitCosts[domain.NormalizeName(s.Ingredient)]
		if !ok {
			cost = defaultCost
		}
		var total float64
		for _, r := range s.Records {
			total += r.Quantity * cost
		}
		items = append(items, ABCItem{Ingredient: s.Ingredient, TotalValue: total})
		grand += total
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].TotalValue > items[j].TotalValue })

	var cum float64
	for i := range items {
		if grand > 0 {
			// multiply first: for whole-number values the shares and the
			// cumulative boundary comparisons stay exact
			items[i].SharePct = items[i].TotalValue * 100 / grand
		}
		cum += items[i].SharePct
		items[i].CumPct = cum

		switch {
		case i == 0 || cum <= abcClassALimit:
			items[i].Class = ClassA
		case cum <= abcClassBLimit:
			items[i].Class = ClassB
		default:
			items[i].Class = ClassC
		}
	}

	return items
}
