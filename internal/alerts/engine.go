// Package alerts turns computed inventory state into prioritized, human-
// readable warnings: stockout exposure, overstock, consumption anomalies and
// reorder-window reminders.
package alerts

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/maishenyun/stockboard/internal/domain"
	"github.com/maishenyun/stockboard/internal/forecast"
)

// Priority orders alerts by how fast someone should act on them.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
	PriorityInfo     Priority = "info"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
	PriorityInfo:     4,
}

// Category names the rule family that raised an alert.
type Category string

const (
	CategoryStockout  Category = "stockout_risk"
	CategoryOverstock Category = "overstock"
	CategorySpike     Category = "consumption_spike"
	CategoryDrop      Category = "consumption_drop"
	CategoryReorder   Category = "reorder_timing"
)

// Alert is one actionable finding for one ingredient.
type Alert struct {
	Ingredient  string    `json:"ingredient"`
	Priority    Priority  `json:"priority"`
	Category    Category  `json:"category"`
	Message     string    `json:"message"`
	DaysOfStock *float64  `json:"days_of_stock,omitempty"`
	ZScore      *float64  `json:"z_score,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Config tunes the alert thresholds. Zero values take the defaults.
type Config struct {
	StockoutCriticalDays float64 // <= 3
	StockoutHighDays     float64 // <= 7
	StockoutMediumDays   float64 // <= 14
	OverstockDays        float64 // > 60 medium
	OverstockHighDays    float64 // > 90 high
	AnomalyZ             float64 // |z| > 2
	SpikeCriticalZ       float64 // z > 3
	ReorderWindowFrom    int     // lead + 3
	ReorderWindowTo      int     // lead + 10
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		StockoutCriticalDays: 3,
		StockoutHighDays:     7,
		StockoutMediumDays:   14,
		OverstockDays:        60,
		OverstockHighDays:    90,
		AnomalyZ:             2,
		SpikeCriticalZ:       3,
		ReorderWindowFrom:    3,
		ReorderWindowTo:      10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.StockoutCriticalDays <= 0 {
		c.StockoutCriticalDays = d.StockoutCriticalDays
	}
	if c.StockoutHighDays <= 0 {
		c.StockoutHighDays = d.StockoutHighDays
	}
	if c.StockoutMediumDays <= 0 {
		c.StockoutMediumDays = d.StockoutMediumDays
	}
	if c.OverstockDays <= 0 {
		c.OverstockDays = d.OverstockDays
	}
	if c.OverstockHighDays <= 0 {
		c.OverstockHighDays = d.OverstockHighDays
	}
	if c.AnomalyZ <= 0 {
		c.AnomalyZ = d.AnomalyZ
	}
	if c.SpikeCriticalZ <= 0 {
		c.SpikeCriticalZ = d.SpikeCriticalZ
	}
	if c.ReorderWindowFrom <= 0 {
		c.ReorderWindowFrom = d.ReorderWindowFrom
	}
	if c.ReorderWindowTo <= 0 {
		c.ReorderWindowTo = d.ReorderWindowTo
	}
	return c
}

// Engine evaluates the alert rules over a computed snapshot.
type Engine struct {
	cfg Config
}

// NewEngine builds an engine with the given thresholds.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Evaluate runs every rule. The schedule parameter is the forecast reorder
// schedule and may be nil when no projections were computable. Results come
// back sorted tightest first.
func (e *Engine) Evaluate(states []domain.InventoryState, series map[string][]float64, schedule []forecast.ReorderProjection, now time.Time) []Alert {
	var out []Alert

	for _, st := range states {
		if a, ok := e.stockoutAlert(st, now); ok {
			out = append(out, a)
		}
		if a, ok := e.overstockAlert(st, now); ok {
			out = append(out, a)
		}
		if a, ok := e.anomalyAlert(st, series[st.Ingredient], now); ok {
			out = append(out, a)
		}
	}

	leads := make(map[string]int, len(states))
	for _, st := range states {
		leads[st.Ingredient] = st.LeadTimeDays
	}
	for _, proj := range schedule {
		if a, ok := e.reorderWindowAlert(proj, leads[proj.Ingredient], now); ok {
			out = append(out, a)
		}
	}

	sortAlerts(out)
	return out
}

// stockoutAlert tiers days-of-stock; an ingredient raises at most one alert
// at its tightest matching tier.
func (e *Engine) stockoutAlert(st domain.InventoryState, now time.Time) (Alert, bool) {
	if st.DaysOfStock == nil {
		return Alert{}, false
	}
	days := *st.DaysOfStock

	var prio Priority
	switch {
	case days <= e.cfg.StockoutCriticalDays:
		prio = PriorityCritical
	case days <= e.cfg.StockoutHighDays:
		prio = PriorityHigh
	case days <= e.cfg.StockoutMediumDays:
		prio = PriorityMedium
	default:
		return Alert{}, false
	}

	return Alert{
		Ingredient:  st.Ingredient,
		Priority:    prio,
		Category:    CategoryStockout,
		Message:     fmt.Sprintf("%.1f days of stock left; recommended order %.1f %s", days, st.RecommendedOrder, st.Unit),
		DaysOfStock: st.DaysOfStock,
		CreatedAt:   now,
	}, true
}

// overstockAlert flags capital sitting in stock well past the target cover.
func (e *Engine) overstockAlert(st domain.InventoryState, now time.Time) (Alert, bool) {
	if st.DaysOfStock == nil {
		return Alert{}, false
	}
	days := *st.DaysOfStock

	var prio Priority
	switch {
	case days > e.cfg.OverstockHighDays:
		prio = PriorityHigh
	case days > e.cfg.OverstockDays:
		prio = PriorityMedium
	default:
		return Alert{}, false
	}

	excess := st.CurrentStock - st.AvgDailyUsage*30
	return Alert{
		Ingredient:  st.Ingredient,
		Priority:    prio,
		Category:    CategoryOverstock,
		Message:     fmt.Sprintf("%.0f days of cover on hand, %.1f %s above a 30-day target", days, excess, st.Unit),
		DaysOfStock: st.DaysOfStock,
		CreatedAt:   now,
	}, true
}

// anomalyAlert scores the latest period against the series mean. It needs at
// least three periods and a non-degenerate spread.
func (e *Engine) anomalyAlert(st domain.InventoryState, values []float64, now time.Time) (Alert, bool) {
	if len(values) < 3 {
		return Alert{}, false
	}

	mean, std := meanStd(values)
	if std == 0 {
		return Alert{}, false
	}

	z := (values[len(values)-1] - mean) / std
	switch {
	case z > e.cfg.AnomalyZ:
		prio := PriorityHigh
		if z > e.cfg.SpikeCriticalZ {
			prio = PriorityCritical
		}
		return Alert{
			Ingredient: st.Ingredient,
			Priority:   prio,
			Category:   CategorySpike,
			Message:    fmt.Sprintf("latest usage %.1f is %.1f standard deviations above the mean %.1f", values[len(values)-1], z, mean),
			ZScore:     &z,
			CreatedAt:  now,
		}, true
	case z < -e.cfg.AnomalyZ:
		return Alert{
			Ingredient: st.Ingredient,
			Priority:   PriorityMedium,
			Category:   CategoryDrop,
			Message:    fmt.Sprintf("latest usage %.1f is %.1f standard deviations below the mean %.1f", values[len(values)-1], -z, mean),
			ZScore:     &z,
			CreatedAt:  now,
		}, true
	}
	return Alert{}, false
}

// reorderWindowAlert reminds about orders coming due a few days past the
// lead time, where placing the order is timely rather than late.
func (e *Engine) reorderWindowAlert(proj forecast.ReorderProjection, lead int, now time.Time) (Alert, bool) {
	if proj.BeyondHorizon {
		return Alert{}, false
	}
	from := lead + e.cfg.ReorderWindowFrom
	to := lead + e.cfg.ReorderWindowTo
	if proj.DaysUntil < from || proj.DaysUntil > to {
		return Alert{}, false
	}

	return Alert{
		Ingredient: proj.Ingredient,
		Priority:   PriorityInfo,
		Category:   CategoryReorder,
		Message:    fmt.Sprintf("reorder point projected in %d days; ordering window is open", proj.DaysUntil),
		CreatedAt:  now,
	}, true
}

func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if priorityRank[alerts[i].Priority] != priorityRank[alerts[j].Priority] {
			return priorityRank[alerts[i].Priority] < priorityRank[alerts[j].Priority]
		}
		di, dj := alerts[i].DaysOfStock, alerts[j].DaysOfStock
		switch {
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}
		return alerts[i].Ingredient < alerts[j].Ingredient
	})
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(values)))
	return mean, std
}
