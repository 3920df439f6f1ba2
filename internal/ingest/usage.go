package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/maishenyun/stockboard/internal/domain"
	"github.com/maishenyun/stockboard/pkg/logger"
)

// monthLayouts are tried in order against usage filenames with the extension
// and any "usage" prefix stripped: "2025-06", "june_2025", "Jun 2025"...
var monthLayouts = []string{
	"2006-01",
	"2006_01",
	"200601",
	"January_2006",
	"January-2006",
	"January 2006",
	"Jan_2006",
	"Jan-2006",
	"Jan 2006",
}

// parseUsageMonth extracts the reporting month from a usage filename.
func parseUsageMonth(filename string) (time.Time, bool) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.TrimSpace(base)
	for _, prefix := range []string{"usage_", "usage-", "usage "} {
		if strings.HasPrefix(strings.ToLower(base), prefix) {
			base = base[len(prefix):]
			break
		}
	}

	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, base); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// loadUsageDir reads every monthly usage file under dir and collapses the
// matrices into per-ingredient monthly series. Usage is enrichment: a missing
// directory, an unparseable filename, or a corrupt file downgrades to a
// warning, never a failed load.
func loadUsageDir(dir string) ([]domain.UsageSeries, []string, []domain.RowError) {
	var warns []domain.RowError

	entries, err := os.ReadDir(dir)
	if err != nil {
		warns = append(warns, domain.RowError{
			File: filepath.Base(dir), Row: 0, Field: "directory",
			Message: "usage directory not readable, forecasting will have no history",
		})
		return nil, nil, warns
	}

	perMonth := make(map[time.Time]map[string]float64)
	monthFile := make(map[time.Time]string)
	var sources []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}

		month, ok := parseUsageMonth(name)
		if !ok {
			warns = append(warns, domain.RowError{
				File: name, Row: 0, Field: "filename",
				Message: "cannot parse month from filename, file skipped",
			})
			continue
		}

		path := filepath.Join(dir, name)
		var header []string
		var rows [][]string
		var readErr error
		if ext == ".xlsx" {
			header, rows, readErr = readXLSX(path)
		} else {
			header, rows, readErr = readCSV(path)
		}
		if readErr != nil {
			warns = append(warns, domain.RowError{
				File: name, Row: 0, Field: "file",
				Message: fmt.Sprintf("unreadable: %v", readErr),
			})
			continue
		}

		totals, fileWarns := collapseUsage(name, header, rows)
		warns = append(warns, fileWarns...)

		if prev, dup := monthFile[month]; dup {
			warns = append(warns, domain.RowError{
				File: name, Row: 0, Field: "filename",
				Message: fmt.Sprintf("month %s already loaded from %s, replaced", month.Format("2006-01"), prev),
			})
		}
		perMonth[month] = totals
		monthFile[month] = name
		sources = append(sources, path)

		logger.Log.Debug().Str("file", name).Str("month", month.Format("2006-01")).
			Int("ingredients", len(totals)).Msg("usage file loaded")
	}

	return assembleSeries(perMonth), sources, warns
}

// collapseUsage sums a day-by-ingredient matrix into per-ingredient totals.
// A leading day/date/week label column is skipped; one malformed cell
// quarantines its whole row.
func collapseUsage(file string, header []string, rows [][]string) (map[string]float64, []domain.RowError) {
	start := 0
	if len(header) > 1 {
		switch normalizeColumnName(header[0]) {
		case "", "day", "date", "week", "period":
			start = 1
		}
	}

	totals := make(map[string]float64)
	var warns []domain.RowError

rowLoop:
	for i, record := range rows {
		row := i + 2

		parsed := make(map[string]float64, len(header)-start)
		for col := start; col < len(header); col++ {
			name := strings.TrimSpace(header[col])
			if name == "" {
				continue
			}
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
				warns = append(warns, domain.RowError{File: file, Row: row, Field: name, Message: fmt.Sprintf("negative usage %v", qty)})
				continue rowLoop
			}
			parsed[name] = qty
		}

		for name, qty := range parsed {
			totals[name] += qty
		}
	}

	return totals, warns
}

// assembleSeries turns month->ingredient->total maps into sorted UsageSeries.
func assembleSeries(perMonth map[time.Time]map[string]float64) []domain.UsageSeries {
	months := make([]time.Time, 0, len(perMonth))
	for m := range perMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	names := make(map[string]struct{})
	for _, totals := range perMonth {
		for name := range totals {
			names[name] = struct{}{}
		}
	}

	out := make([]domain.UsageSeries, 0, len(names))
	for name := range names {
		s := domain.UsageSeries{Ingredient: name}
		for _, m := range months {
			if qty, ok := perMonth[m][name]; ok {
				s.Records = append(s.Records, domain.UsageRecord{Ingredient: name, Period: m, Quantity: qty})
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ingredient < out[j].Ingredient })

	return out
}

// readXLSX streams the first sheet of a workbook into header and data rows.
func readXLSX(path string) (header []string, rows [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	defer iter.Close()

	first := true
	for iter.Next() {
		record, err := iter.Columns()
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		if first {
			header = record
			first = false
			continue
		}
		rows = append(rows, record)
	}
	if err := iter.Error(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	if first {
		return nil, nil, fmt.Errorf("workbook %s: empty sheet", filepath.Base(path))
	}

	return header, rows, nil
}
