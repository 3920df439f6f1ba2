package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/maishenyun/stockboard/internal/domain"
)

// BuildStates computes an InventoryState row per ingredient, joining stock
// levels by name. Ingredients with no stock row get a zero level tagged
// StockSourceNone rather than being dropped; rows stay sorted by name so
// output is deterministic.
func (c *Calculator) BuildStates(ings []domain.Ingredient, stocks map[string]domain.StockLevel) []domain.InventoryState {
	states := make([]domain.InventoryState, 0, len(ings))
	for _, ing := range ings {
		stock, ok := stocks[ing.Name]
		if !ok {
			stock = domain.StockLevel{Ingredient: ing.Name, Quantity: 0, Source: domain.StockSourceNone}
		}
		states = append(states, c.Calculate(ing, stock))
	}

	sort.Slice(states, func(i, j int) bool {
		return states[i].Ingredient < states[j].Ingredient
	})

	return states
}

// Summarize rolls the state table up into the dashboard headline counts.
func Summarize(states []domain.InventoryState, excluded int, source domain.StockSource) domain.InventorySummary {
	summary := domain.InventorySummary{
		TotalIngredients: len(states),
		ExcludedCount:    excluded,
		StockSource:      source,
		GeneratedAt:      time.Now(),
	}

	for _, s := range states {
		switch s.Status {
		case domain.StatusLow:
			summary.LowCount++
		case domain.StatusOverstock:
			summary.OverstockCount++
		default:
			summary.NormalCount++
		}
	}

	return summary
}

// ReorderList returns the low-stock rows with their recommended order
// quantities, most urgent (fewest days of stock) first.
func ReorderList(states []domain.InventoryState) []domain.ReorderItem {
	var items []domain.ReorderItem
	for _, s := range states {
		if s.Status != domain.StatusLow {
			continue
		}
		items = append(items, domain.ReorderItem{
			Ingredient:       s.Ingredient,
			Unit:             s.Unit,
			CurrentStock:     s.CurrentStock,
			ReorderPoint:     s.ReorderPoint,
			RecommendedOrder: s.RecommendedOrder,
			DaysOfStock:      s.DaysOfStock,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		di, dj := items[i].DaysOfStock, items[j].DaysOfStock
		switch {
		case di == nil && dj == nil:
			return items[i].Ingredient < items[j].Ingredient
		case di == nil:
			return false
		case dj == nil:
			return true
		case *di != *dj:
			return *di < *dj
		default:
			return items[i].Ingredient < items[j].Ingredient
		}
	})

	return items
}

// Filter applies status, search and pagination to a state table and reports
// the pre-pagination total.
func Filter(states []domain.InventoryState, f domain.InventoryFilter) ([]domain.InventoryState, int) {
	filtered := make([]domain.InventoryState, 0, len(states))
	for _, s := range states {
		if f.Status != "" {
			status, ok := domain.ParseStockStatus(f.Status)
			if !ok || s.Status != status {
				continue
			}
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Ingredient), strings.ToLower(f.Search)) {
			continue
		}
		filtered = append(filtered, s)
	}

	switch f.SortBy {
	case "days_of_stock":
		sort.SliceStable(filtered, func(i, j int) bool {
			di, dj := filtered[i].DaysOfStock, filtered[j].DaysOfStock
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	case "current_stock":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CurrentStock < filtered[j].CurrentStock
		})
	case "usage":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].AvgDailyUsage > filtered[j].AvgDailyUsage
		})
	}

	total := len(filtered)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.PageSize
		if start >= len(filtered) {
			return []domain.InventoryState{}, total
		}
		end := start + f.PageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		filtered = filtered[start:end]
	}

	return filtered, total
}
