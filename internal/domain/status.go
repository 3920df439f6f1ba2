package domain

import "strings"

// StockStatus classifies an ingredient's inventory position.
// Exactly one status holds for any (stock, reorder point, daily usage) triple.
type StockStatus string

const (
	StatusLow       StockStatus = "low"
	StatusNormal    StockStatus = "normal"
	StatusOverstock StockStatus = "overstock"
)

var stockStatusLabels = map[StockStatus]string{
	StatusLow:       "Low",
	StatusNormal:    "Normal",
	StatusOverstock: "Overstock",
}

// Label returns a human-readable label for the status.
func (s StockStatus) Label() string {
	if label, ok := stockStatusLabels[s]; ok {
		return label
	}

	return "Unknown"
}

// ParseStockStatus returns the status for a given label (case-insensitive).
func ParseStockStatus(label string) (StockStatus, bool) {
	s := StockStatus(strings.ToLower(strings.TrimSpace(label)))
	_, ok := stockStatusLabels[s]

	return s, ok
}

// StockSource tells where current stock levels came from. Simulated levels are
// a fixture for environments without a live inventory feed and are labeled as
// such on every derived row.
type StockSource string

const (
	StockSourceFile       StockSource = "file"
	StockSourceSimulation StockSource = "simulation"
	StockSourceNone       StockSource = "none"
)
