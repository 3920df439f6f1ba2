package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/maishenyun/stockboard/internal/domain"
	"github.com/maishenyun/stockboard/pkg/logger"
)

// Source file names the loader looks for under the data directory.
const (
	shipmentsFile   = "shipments.csv"
	recipesFile     = "recipes.csv"
	stockLevelsFile = "stock_levels.csv"
	unitCostsFile   = "unit_costs.csv"
)

// Loader reads the raw source files into a Dataset. Shipment metadata is the
// only mandatory source; everything else degrades to warnings so a partially
// populated data directory still produces a dashboard.
type Loader struct {
	dataDir  string
	usageDir string
}

// NewLoader builds a loader rooted at dataDir. usageDir defaults to
// dataDir/usage when empty.
func NewLoader(dataDir, usageDir string) *Loader {
	if usageDir == "" {
		usageDir = filepath.Join(dataDir, "usage")
	}
	return &Loader{dataDir: dataDir, usageDir: usageDir}
}

// Dataset is everything read from the sources in one load pass, plus the
// quarantine warnings and the fingerprint the memo store keys on.
type Dataset struct {
	Ingredients []domain.Ingredient
	Usage       []domain.UsageSeries
	Stocks      []domain.StockLevel
	UnitCosts   map[string]float64
	Recipes     []domain.Recipe
	Warnings    []domain.RowError
	Fingerprint string
	LoadedAt    time.Time
}

// Load reads every source file. It fails only when shipments.csv is missing
// or structurally broken; optional sources contribute warnings instead.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{
		UnitCosts: make(map[string]float64),
		LoadedAt:  time.Now().UTC(),
	}

	var sources []string

	shipmentsPath := filepath.Join(l.dataDir, shipmentsFile)
	ingredients, warns, err := loadShipments(shipmentsPath)
	if err != nil {
		return nil, fmt.Errorf("load shipments: %w", err)
	}
	ds.Ingredients = ingredients
	ds.Warnings = append(ds.Warnings, warns...)
	sources = append(sources, shipmentsPath)

	recipesPath := filepath.Join(l.dataDir, recipesFile)
	if _, err := os.Stat(recipesPath); err == nil {
		recipes, warns, err := loadRecipes(recipesPath)
		if err != nil {
			return nil, fmt.Errorf("load recipes: %w", err)
		}
		ds.Recipes = recipes
		ds.Warnings = append(ds.Warnings, warns...)
		sources = append(sources, recipesPath)
	} else {
		ds.Warnings = append(ds.Warnings, domain.RowError{
			File: recipesFile, Row: 0, Field: "file", Message: "not found, menu features unavailable",
		})
	}

	usage, usageFiles, usageWarns := loadUsageDir(l.usageDir)
	ds.Usage = usage
	ds.Warnings = append(ds.Warnings, usageWarns...)
	sources = append(sources, usageFiles...)

	stocksPath := filepath.Join(l.dataDir, stockLevelsFile)
	if _, err := os.Stat(stocksPath); err == nil {
		stocks, warns, err := loadStockLevels(stocksPath)
		if err != nil {
			return nil, fmt.Errorf("load stock levels: %w", err)
		}
		ds.Stocks = stocks
		ds.Warnings = append(ds.Warnings, warns...)
		sources = append(sources, stocksPath)
	}

	costsPath := filepath.Join(l.dataDir, unitCostsFile)
	if _, err := os.Stat(costsPath); err == nil {
		costs, warns, err := loadUnitCosts(costsPath)
		if err != nil {
			return nil, fmt.Errorf("load unit costs: %w", err)
		}
		ds.UnitCosts = costs
		ds.Warnings = append(ds.Warnings, warns...)
		sources = append(sources, costsPath)
	}

	l.canonicalizeUsageNames(ds)

	fp, err := Fingerprint(sources)
	if err != nil {
		return nil, fmt.Errorf("fingerprint sources: %w", err)
	}
	ds.Fingerprint = fp

	logger.Log.Info().
		Int("ingredients", len(ds.Ingredients)).
		Int("usage_series", len(ds.Usage)).
		Int("stocks", len(ds.Stocks)).
		Int("recipes", len(ds.Recipes)).
		Int("warnings", len(ds.Warnings)).
		Str("fingerprint", fp).
		Msg("dataset loaded")

	return ds, nil
}

// canonicalizeUsageNames re-keys usage series to the shipment file's exact
// ingredient spelling so downstream joins are by plain equality. Series with
// no shipment match keep their own name and are quarantined from the reorder
// calculations with a data-quality warning naming the ingredient.
func (l *Loader) canonicalizeUsageNames(ds *Dataset) {
	canon := make(map[string]string, len(ds.Ingredients))
	for _, ing := range ds.Ingredients {
		canon[domain.NormalizeName(ing.Name)] = ing.Name
	}

	for i := range ds.Usage {
		name, ok := canon[domain.NormalizeName(ds.Usage[i].Ingredient)]
		if !ok {
			ds.Warnings = append(ds.Warnings, domain.RowError{
				File: "usage", Row: 0, Field: "ingredient",
				Message: fmt.Sprintf("%s has usage history but no shipment metadata, excluded from reorder calculations", ds.Usage[i].Ingredient),
			})
			continue
		}
		ds.Usage[i].Ingredient = name
		for j := range ds.Usage[i].Records {
			ds.Usage[i].Records[j].Ingredient = name
		}
	}
}

// HasStocks reports whether any stock level came from a source file.
func (d *Dataset) HasStocks() bool {
	return len(d.Stocks) > 0
}

// StocksByName indexes stock levels by normalized ingredient name.
func (d *Dataset) StocksByName() map[string]domain.StockLevel {
	out := make(map[string]domain.StockLevel, len(d.Stocks))
	for _, s := range d.Stocks {
		out[domain.NormalizeName(s.Ingredient)] = s
	}
	return out
}

// Units maps ingredient name to its unit of measure.
func (d *Dataset) Units() map[string]string {
	out := make(map[string]string, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		out[ing.Name] = ing.Unit
	}
	return out
}

// SeriesByIngredient maps ingredient name to its raw usage values in period
// order, the shape the forecast and analytics engines consume.
func (d *Dataset) SeriesByIngredient() map[string][]float64 {
	out := make(map[string][]float64, len(d.Usage))
	for _, s := range d.Usage {
		out[s.Ingredient] = s.Values()
	}
	return out
}

// Periods returns every distinct usage period in ascending order.
func (d *Dataset) Periods() []time.Time {
	seen := make(map[time.Time]struct{})
	for _, s := range d.Usage {
		for _, r := range s.Records {
			seen[r.Period] = struct{}{}
		}
	}
	out := make([]time.Time, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Summary condenses the dataset for the /summary endpoint and CLI output.
func (d *Dataset) Summary() domain.DataSummary {
	s := domain.DataSummary{
		Ingredients: len(d.Ingredients),
		Dishes:      len(d.Recipes),
		Warnings:    len(d.Warnings),
		Fingerprint: d.Fingerprint,
		RefreshedAt: d.LoadedAt,
	}
	periods := d.Periods()
	s.UsagePeriods = len(periods)
	if len(periods) > 0 {
		first, last := periods[0], periods[len(periods)-1]
		s.FirstPeriod = &first
		s.LastPeriod = &last
	}
	return s
}
