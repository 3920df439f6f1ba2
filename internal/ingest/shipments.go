package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/maishenyun/stockboard/internal/domain"
)

// loadShipments parses the shipment metadata file. Rows that violate the
// schema are quarantined and reported; a duplicate ingredient keeps the last
// row and reports the replacement.
func loadShipments(path string) ([]domain.Ingredient, []domain.RowError, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}

	idx, err := shipmentsSchema.resolve(header)
	if err != nil {
		return nil, nil, err
	}

	file := filepath.Base(path)
	var warns []domain.RowError
	quarantine := func(row int, field, msg string) {
		warns = append(warns, domain.RowError{File: file, Row: row, Field: field, Message: msg})
	}

	byName := make(map[string]int) // normalized name -> position in out
	var out []domain.Ingredient

	for i, record := range rows {
		row := i + 2 // header is row 1

		name := cell(record, idx["ingredient"])
		if name == "" {
			quarantine(row, "ingredient", "missing ingredient name")
			continue
		}

		unit := cell(record, idx["unit"])
		if unit == "" {
			quarantine(row, "unit", "missing unit")
			continue
		}

		qty, err := parseQuantity(cell(record, idx["qty_per_shipment"]))
		if err != nil {
			quarantine(row, "qty_per_shipment", err.Error())
			continue
		}
		if qty < 0 {
			quarantine(row, "qty_per_shipment", fmt.Sprintf("negative quantity %v", qty))
			continue
		}

		spm, err := parseQuantity(cell(record, idx["shipments_per_month"]))
		if err != nil {
			quarantine(row, "shipments_per_month", err.Error())
			continue
		}
		if spm < 0 {
			quarantine(row, "shipments_per_month", fmt.Sprintf("negative count %v", spm))
			continue
		}

		rawFreq := cell(record, idx["frequency"])
		freq, ok := domain.ParseFrequency(rawFreq)
		if !ok {
			quarantine(row, "frequency", fmt.Sprintf("unknown delivery frequency %q", rawFreq))
			continue
		}

		ing := domain.Ingredient{
			Name:              name,
			Unit:              unit,
			QtyPerShipment:    qty,
			ShipmentsPerMonth: spm,
			Frequency:         freq,
		}

		key := domain.NormalizeName(name)
		if pos, dup := byName[key]; dup {
			out[pos] = ing
			quarantine(row, "ingredient", fmt.Sprintf("duplicate ingredient %q, earlier row replaced", name))
			continue
		}
		byName[key] = len(out)
		out = append(out, ing)
	}

	return out, warns, nil
}
