package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/maishenyun/stockboard/internal/domain"
)

// loadStockLevels parses the optional on-hand stock file. Rows are labeled
// StockSourceFile unless they carry the simulation marker the fixture writer
// emits, so generated levels can never masquerade as counted stock.
func loadStockLevels(path string) ([]domain.StockLevel, []domain.RowError, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}

	idx, err := stockLevelsSchema.resolve(header)
	if err != nil {
		return nil, nil, err
	}

	file := filepath.Base(path)
	var warns []domain.RowError
	var out []domain.StockLevel

	for i, record := range rows {
		row := i + 2

		name := cell(record, idx["ingredient"])
		if name == "" {
			warns = append(warns, domain.RowError{File: file, Row: row, Field: "ingredient", Message: "missing ingredient name"})
			continue
		}

		qty, err := parseQuantity(cell(record, idx["quantity"]))
		if err != nil {
			warns = append(warns, domain.RowError{File: file, Row: row, Field: "quantity", Message: err.Error()})
			continue
		}
		if qty < 0 {
			warns = append(warns, domain.RowError{File: file, Row: row, Field: "quantity", Message: fmt.Sprintf("negative quantity %v", qty)})
			continue
		}

		source := domain.StockSourceFile
		if cell(record, idx["source"]) == string(domain.StockSourceSimulation) {
			source = domain.StockSourceSimulation
		}

		out = append(out, domain.StockLevel{
			Ingredient: name,
			Quantity:   qty,
			Source:     source,
		})
	}

	return out, warns, nil
}

// loadUnitCosts parses the optional per-unit cost file into a map keyed by
// normalized ingredient name.
func loadUnitCosts(path string) (map[string]float64, []domain.RowError, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}

	idx, err := unitCostsSchema.resolve(header)
	if err != nil {
		return nil, nil, err
	}

	file := filepath.Base(path)
	var warns []domain.RowError
	out := make(map[string]float64, len(rows))

	for i, record := range rows {
		row := i + 2

		name := cell(record, idx["ingredient"])
		if name == "" {
			warns = append(warns, domain.RowError{File: file, Row: row, Field: "ingredient", Message: "missing ingredient name"})
			continue
		}

		cost, err := parseQuantity(cell(record, idx["unit_cost"]))
		if err != nil {
			warns = append(warns, domain.RowError{File: file, Row: row, Field: "unit_cost", Message: err.Error()})
			continue
		}
		if cost < 0 {
			warns = append(warns, domain.RowError{File: file, Row: row, Field: "unit_cost", Message: fmt.Sprintf("negative cost %v", cost)})
			continue
		}

		out[domain.NormalizeName(name)] = cost
	}

	return out, warns, nil
}
