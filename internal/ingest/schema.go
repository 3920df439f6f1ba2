package ingest

import (
	"fmt"
	"strings"
)

// column is one declared source-file column. Header matching is by normalized
// name, so "Qty per Shipment", "qty_per_shipment" and "QTY PER SHIPMENT" all
// resolve to the same column.
type column struct {
	name     string // canonical field name, used in RowError.Field
	aliases  []string
	required bool
}

// schema declares the expected columns of one source file. A missing required
// column fails the whole file; everything below the header is validated row
// by row and quarantined on violation.
type schema struct {
	file    string
	columns []column
}

var shipmentsSchema = schema{
	file: "shipments.csv",
	columns: []column{
		{name: "ingredient", aliases: []string{"ingredient", "name", "item", "ingredient name"}, required: true},
		{name: "unit", aliases: []string{"unit", "uom", "measure"}, required: true},
		{name: "qty_per_shipment", aliases: []string{"qty per shipment", "quantity per shipment", "shipment qty", "qty/shipment", "qty"}, required: true},
		{name: "shipments_per_month", aliases: []string{"shipments per month", "monthly shipments", "shipments/month"}, required: true},
		{name: "frequency", aliases: []string{"frequency", "delivery frequency", "schedule"}, required: true},
	},
}

var stockLevelsSchema = schema{
	file: "stock_levels.csv",
	columns: []column{
		{name: "ingredient", aliases: []string{"ingredient", "name", "item"}, required: true},
		{name: "quantity", aliases: []string{"quantity", "qty", "stock", "on hand", "current stock"}, required: true},
		// written by the simulate fixture so generated levels stay labeled
		// through an export/reload round trip
		{name: "source", aliases: []string{"source", "origin"}},
	},
}

var unitCostsSchema = schema{
	file: "unit_costs.csv",
	columns: []column{
		{name: "ingredient", aliases: []string{"ingredient", "name", "item"}, required: true},
		{name: "unit_cost", aliases: []string{"unit cost", "cost", "price", "unit price", "cost per unit"}, required: true},
	},
}

// resolve maps canonical column names to header indexes. Unmatched optional
// columns map to -1; unmatched required columns are an error naming every
// missing column at once.
func (s schema) resolve(header []string) (map[string]int, error) {
	normalized := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeColumnName(h)
		if _, seen := normalized[key]; !seen {
			normalized[key] = i
		}
	}

	idx := make(map[string]int, len(s.columns))
	var missing []string
	for _, col := range s.columns {
		idx[col.name] = -1
		for _, alias := range col.aliases {
			if i, ok := normalized[normalizeColumnName(alias)]; ok {
				idx[col.name] = i
				break
			}
		}
		if idx[col.name] < 0 && col.required {
			missing = append(missing, col.name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing required column(s): %s", s.file, strings.Join(missing, ", "))
	}
	return idx, nil
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}
