package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/maishenyun/stockboard/internal/domain"
)

// loadRecipes parses the dish/ingredient matrix: the first column names the
// dish, every remaining header cell names an ingredient, and each cell is the
// per-serving quantity. Empty cells read as zero; malformed cells quarantine
// the dish row.
func loadRecipes(path string) ([]domain.Recipe, []domain.RowError, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	if len(header) < 2 {
		return nil, nil, fmt.Errorf("%s: need a dish column plus at least one ingredient column", filepath.Base(path))
	}

	file := filepath.Base(path)
	var warns []domain.RowError
	var out []domain.Recipe

rowLoop:
	for i, record := range rows {
		row := i + 2

		dish := cell(record, 0)
		if dish == "" {
			warns = append(warns, domain.RowError{File: file, Row: row, Field: "dish", Message: "missing dish name"})
			continue
		}

		ingredients := make(map[string]float64, len(header)-1)
		for col := 1; col < len(header); col++ {
			name := header[col]
			raw := cell(record, col)
			if raw == "" {
				continue
			}
			qty, err := parseQuantity(raw)
			if err != nil {
				warns = append(warns, domain.RowError{File: file, Row: row, Field: name, Message: err.Error()})
				continue rowLoop
			}
			if qty < 0 {
				warns = append(warns, domain.RowError{File: file, Row: row, Field: name, Message: fmt.Sprintf("negative quantity %v", qty)})
				continue rowLoop
			}
			if qty > 0 {
				ingredients[name] = qty
			}
		}

		out = append(out, domain.Recipe{Dish: dish, Ingredients: ingredients})
	}

	return out, warns, nil
}
