// Package service orchestrates the dashboard: dataset loads, snapshot
// memoization, simulation fallback and the read paths the API serves.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maishenyun/stockboard/internal/alerts"
	"github.com/maishenyun/stockboard/internal/analytics"
	"github.com/maishenyun/stockboard/internal/cache"
	"github.com/maishenyun/stockboard/internal/config"
	"github.com/maishenyun/stockboard/internal/cost"
	"github.com/maishenyun/stockboard/internal/domain"
	"github.com/maishenyun/stockboard/internal/export"
	"github.com/maishenyun/stockboard/internal/forecast"
	"github.com/maishenyun/stockboard/internal/ingest"
	"github.com/maishenyun/stockboard/internal/inventory"
	"github.com/maishenyun/stockboard/internal/menu"
	"github.com/maishenyun/stockboard/internal/metrics"
	"github.com/maishenyun/stockboard/internal/sim"
	"github.com/maishenyun/stockboard/internal/snapshot"
)

// DashboardService owns the loaded dataset and its derived snapshot. All
// reads go through it; it reloads lazily on first use and on POST /refresh.
type DashboardService struct {
	loader  *ingest.Loader
	store   *snapshot.Store
	cache   cache.ResponseCache
	metrics *metrics.Metrics
	cfg     *config.Config

	mu      sync.RWMutex
	dataset *ingest.Dataset
	current *snapshot.Snapshot
	planner *menu.Planner
}

// NewDashboardService wires the service. A nil cache falls back to the
// no-op implementation.
func NewDashboardService(loader *ingest.Loader, store *snapshot.Store, cacheImpl cache.ResponseCache, m *metrics.Metrics, cfg *config.Config) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResponseCache()
	}
	return &DashboardService{
		loader:  loader,
		store:   store,
		cache:   cacheImpl,
		metrics: m,
		cfg:     cfg,
	}
}

// Refresh reloads the source files and rebuilds the derived snapshot. When
// the dataset fingerprint is unchanged the memoized snapshot is reused.
// force drops the memo entry and clears the response cache first.
func (s *DashboardService) Refresh(ctx context.Context, force bool) (*snapshot.Snapshot, error) {
	started := time.Now()

	ds, err := s.loader.Load(ctx)
	if err != nil {
		s.metrics.ObserveRefresh(time.Since(started), err)
		return nil, err
	}

	if force {
		s.store.Invalidate(ds.Fingerprint)
		if err := s.cache.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("dashboard: response cache invalidate failed")
		}
	}

	snap, ok := s.store.Get(ds.Fingerprint)
	if !ok {
		snap = s.buildSnapshot(ds, time.Now().UTC())
		s.store.Put(snap)
		// counted only on a real rebuild so reloading unchanged inputs does
		// not inflate the quarantine total
		s.metrics.AddQuarantined(len(ds.Warnings))
	}

	s.mu.Lock()
	s.dataset = ds
	s.current = snap
	s.planner = menu.NewPlanner(ds.Recipes, ds.Ingredients)
	s.mu.Unlock()

	s.metrics.ObserveRefresh(time.Since(started), nil)

	return snap, nil
}

// Snapshot returns the current derived snapshot, loading the dataset first
// if nothing has been loaded yet.
func (s *DashboardService) Snapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	_, snap, err := s.ensureLoaded(ctx)
	return snap, err
}

func (s *DashboardService) ensureLoaded(ctx context.Context) (*ingest.Dataset, *snapshot.Snapshot, error) {
	s.mu.RLock()
	ds, snap := s.dataset, s.current
	s.mu.RUnlock()
	if ds != nil && snap != nil {
		return ds, snap, nil
	}

	if _, err := s.Refresh(ctx, false); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset, s.current, nil
}

// buildSnapshot runs every engine over a freshly loaded dataset.
func (s *DashboardService) buildSnapshot(ds *ingest.Dataset, now time.Time) *snapshot.Snapshot {
	stocks, source := s.stocksFor(ds)
	unitCosts := s.unitCostsFor(ds)
	costCfg := s.costConfig()

	calc := inventory.NewCalculator(inventory.Config{
		SafetyStockDays: s.cfg.Inventory.SafetyStockDays,
		OverstockDays:   s.cfg.Inventory.OverstockDays,
	})
	states := calc.BuildStates(ds.Ingredients, stocks)

	series := ds.SeriesByIngredient()
	schedule := forecast.BuildSchedule(states, series, s.cfg.Forecast.Horizon, s.forecastConfig(), now)

	engine := alerts.NewEngine(alerts.Config{OverstockDays: s.cfg.Inventory.OverstockDays})
	alertRows := engine.Evaluate(states, series, schedule, now)

	eoqRows, err := cost.EOQAll(ds.Ingredients, states, unitCosts, costCfg)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: eoq rows unavailable")
	}

	return &snapshot.Snapshot{
		Fingerprint:  ds.Fingerprint,
		GeneratedAt:  now,
		StockSource:  source,
		States:       states,
		Usage:        ds.Usage,
		ABC:          analytics.ClassifyABC(ds.Usage, unitCosts, costCfg.DefaultUnitCost),
		Seasonal:     analytics.Seasonal(ds.Usage),
		Turnover:     analytics.Turnover(ds.Usage, states),
		StockoutRisk: analytics.StockoutRisks(states),
		CostRows:     eoqRows,
		SpendTrend:   cost.Spend(ds.Usage, unitCosts, costCfg),
		Alerts:       alertRows,
		Warnings:     ds.Warnings,
	}
}

// stocksFor joins loaded stock levels to shipment spellings, or simulates
// levels when no stock file exists and simulation is enabled. The returned
// source reflects where the levels came from; any simulated row marks the
// whole set simulated, since reloaded fixtures keep their origin.
func (s *DashboardService) stocksFor(ds *ingest.Dataset) (map[string]domain.StockLevel, domain.StockSource) {
	if ds.HasStocks() {
		byNorm := ds.StocksByName()
		out := make(map[string]domain.StockLevel, len(byNorm))
		source := domain.StockSourceFile
		for _, ing := range ds.Ingredients {
			lvl, ok := byNorm[domain.NormalizeName(ing.Name)]
			if !ok {
				continue
			}
			lvl.Ingredient = ing.Name
			out[ing.Name] = lvl
			if lvl.Source == domain.StockSourceSimulation {
				source = domain.StockSourceSimulation
			}
		}
		return out, source
	}

	if s.cfg.Sim.Enabled {
		out := make(map[string]domain.StockLevel, len(ds.Ingredients))
		for _, lvl := range sim.New(s.cfg.Sim.Seed).StockLevels(ds.Ingredients) {
			out[lvl.Ingredient] = lvl
		}
		return out, domain.StockSourceSimulation
	}

	return map[string]domain.StockLevel{}, domain.StockSourceNone
}

// unitCostsFor returns loaded unit costs, simulating them when absent.
func (s *DashboardService) unitCostsFor(ds *ingest.Dataset) map[string]float64 {
	if len(ds.UnitCosts) > 0 {
		return ds.UnitCosts
	}
	if s.cfg.Sim.Enabled {
		return sim.New(s.cfg.Sim.Seed).UnitCosts(ds.Ingredients)
	}
	return map[string]float64{}
}

func (s *DashboardService) forecastConfig() forecast.Config {
	return forecast.Config{
		Window:  s.cfg.Forecast.Window,
		Alpha:   s.cfg.Forecast.Alpha,
		Weights: s.cfg.Forecast.Weights,
	}
}

func (s *DashboardService) costConfig() cost.Config {
	return cost.Config{
		OrderingCost:    s.cfg.Cost.OrderingCost,
		HoldingRate:     s.cfg.Cost.HoldingRate,
		DefaultUnitCost: s.cfg.Cost.DefaultUnitCost,
	}
}

// Inventory lists inventory states through the standard filter.
func (s *DashboardService) Inventory(ctx context.Context, f domain.InventoryFilter) ([]domain.InventoryState, int, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, 0, err
	}
	states, total := inventory.Filter(snap.States, f)
	return states, total, nil
}

// InventorySummary returns the headline stock counts.
func (s *DashboardService) InventorySummary(ctx context.Context) (domain.InventorySummary, error) {
	ds, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return domain.InventorySummary{}, err
	}

	tracked := make(map[string]struct{}, len(ds.Ingredients))
	for _, ing := range ds.Ingredients {
		tracked[ing.Name] = struct{}{}
	}
	excluded := 0
	for _, u := range ds.Usage {
		if _, ok := tracked[u.Ingredient]; !ok {
			excluded++
		}
	}

	return inventory.Summarize(snap.States, excluded, snap.StockSource), nil
}

// Reorders returns the low-stock order list.
func (s *DashboardService) Reorders(ctx context.Context) ([]domain.ReorderItem, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.ReorderList(snap.States), nil
}

// DataSummary describes the loaded dataset for the summary endpoint.
func (s *DashboardService) DataSummary(ctx context.Context) (domain.DataSummary, error) {
	ds, _, err := s.ensureLoaded(ctx)
	if err != nil {
		return domain.DataSummary{}, err
	}
	return ds.Summary(), nil
}

// Forecast projects usage for one ingredient. Zero-valued overrides keep the
// configured defaults; explicit invalid values surface as ErrInvalidConfig.
func (s *DashboardService) Forecast(ctx context.Context, ingredient string, method forecast.Method, horizon int, override forecast.Config) (*forecast.Result, error) {
	ds, _, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	if horizon == 0 {
		horizon = s.cfg.Forecast.Horizon
	}
	cfg := s.forecastConfig()
	if override.Window != 0 {
		cfg.Window = override.Window
	}
	if override.Alpha != 0 {
		cfg.Alpha = override.Alpha
	}
	if len(override.Weights) > 0 {
		cfg.Weights = override.Weights
	}

	series, ok := s.findSeries(ds, ingredient)
	if !ok {
		return nil, fmt.Errorf("%w: no usage history for %q", domain.ErrInsufficientData, ingredient)
	}
	return forecast.ForecastSeries(method, series, ds.Units()[series.Ingredient], horizon, cfg)
}

// ForecastAccuracy scores every method for one ingredient on a holdout. A
// zero holdout falls back to the configured one.
func (s *DashboardService) ForecastAccuracy(ctx context.Context, ingredient string, holdout int) ([]forecast.Accuracy, error) {
	ds, _, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	if holdout == 0 {
		holdout = s.cfg.Forecast.Holdout
	}
	series, ok := s.findSeries(ds, ingredient)
	if !ok {
		return nil, fmt.Errorf("%w: no usage history for %q", domain.ErrInsufficientData, ingredient)
	}
	return forecast.EvaluateAll(series.Values(), holdout, s.forecastConfig())
}

// Schedule projects when each ingredient crosses its reorder point.
func (s *DashboardService) Schedule(ctx context.Context) ([]forecast.ReorderProjection, error) {
	ds, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return forecast.BuildSchedule(snap.States, ds.SeriesByIngredient(), s.cfg.Forecast.Horizon, s.forecastConfig(), time.Now().UTC()), nil
}

func (s *DashboardService) findSeries(ds *ingest.Dataset, ingredient string) (domain.UsageSeries, bool) {
	target := domain.NormalizeName(ingredient)
	for _, u := range ds.Usage {
		if domain.NormalizeName(u.Ingredient) == target {
			return u, true
		}
	}
	return domain.UsageSeries{}, false
}

// ABC returns the value classification.
func (s *DashboardService) ABC(ctx context.Context) ([]analytics.ABCItem, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.ABC, nil
}

// Correlations computes the pairwise usage correlation matrix.
func (s *DashboardService) Correlations(ctx context.Context) (analytics.CorrelationMatrix, error) {
	ds, _, err := s.ensureLoaded(ctx)
	if err != nil {
		return analytics.CorrelationMatrix{}, err
	}
	return analytics.Correlations(ds.Usage), nil
}

// Seasonal returns the month-by-month usage matrix.
func (s *DashboardService) Seasonal(ctx context.Context) ([]analytics.SeasonalRow, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Seasonal, nil
}

// Trend returns descriptive statistics for one ingredient's usage.
func (s *DashboardService) Trend(ctx context.Context, ingredient string) (analytics.TrendStats, error) {
	ds, _, err := s.ensureLoaded(ctx)
	if err != nil {
		return analytics.TrendStats{}, err
	}
	series, ok := s.findSeries(ds, ingredient)
	if !ok {
		return analytics.TrendStats{}, fmt.Errorf("%w: no usage history for %q", domain.ErrInsufficientData, ingredient)
	}
	return analytics.Trend(series)
}

// Turnover returns the stock turnover table.
func (s *DashboardService) Turnover(ctx context.Context) ([]analytics.TurnoverItem, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Turnover, nil
}

// StockoutRisks returns the lead-time coverage risk table.
func (s *DashboardService) StockoutRisks(ctx context.Context) ([]analytics.StockoutRisk, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.StockoutRisk, nil
}

// Alerts returns the active alert list.
func (s *DashboardService) Alerts(ctx context.Context) ([]alerts.Alert, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Alerts, nil
}

// AlertSummary returns alert counts and insight lines.
func (s *DashboardService) AlertSummary(ctx context.Context) (alerts.Summary, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return alerts.Summary{}, err
	}
	return alerts.Summarize(snap.Alerts, time.Now().UTC()), nil
}

// EOQ returns the order-size optimization rows.
func (s *DashboardService) EOQ(ctx context.Context) ([]cost.EOQItem, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.CostRows, nil
}

// Spend returns purchase value aggregated by period and ingredient.
func (s *DashboardService) Spend(ctx context.Context) (cost.SpendTrend, error) {
	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return cost.SpendTrend{}, err
	}
	return snap.SpendTrend, nil
}

// Waste estimates received-minus-used waste per ingredient and category.
func (s *DashboardService) Waste(ctx context.Context) ([]cost.WasteItem, []cost.CategoryWaste, error) {
	ds, _, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, nil, err
	}
	items, cats := cost.WasteReport(ds.Ingredients, ds.Usage, s.unitCostsFor(ds), s.costConfig())
	return items, cats, nil
}

// MenuRequirements totals ingredient needs for a dish list.
func (s *DashboardService) MenuRequirements(ctx context.Context, dishes []string, sales map[string]int) ([]menu.Requirement, []string, error) {
	planner, err := s.menuPlanner(ctx)
	if err != nil {
		return nil, nil, err
	}
	reqs, missing := planner.Requirements(dishes, sales)
	return reqs, missing, nil
}

// MenuAvailability checks a dish list against current stock.
func (s *DashboardService) MenuAvailability(ctx context.Context, dishes []string, sales map[string]int) (menu.Availability, []menu.Requirement, error) {
	planner, err := s.menuPlanner(ctx)
	if err != nil {
		return menu.Availability{}, nil, err
	}

	_, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return menu.Availability{}, nil, err
	}

	stocks := make(map[string]float64, len(snap.States))
	for _, st := range snap.States {
		stocks[domain.NormalizeName(st.Ingredient)] = st.CurrentStock
	}

	reqs, _ := planner.Requirements(dishes, sales)
	return planner.Availability(reqs, stocks), reqs, nil
}

// MenuCompare diffs two dish lists.
func (s *DashboardService) MenuCompare(ctx context.Context, current, planned []string, currentSales, plannedSales map[string]int) (menu.MenuDiff, error) {
	planner, err := s.menuPlanner(ctx)
	if err != nil {
		return menu.MenuDiff{}, err
	}
	return planner.Compare(current, planned, currentSales, plannedSales), nil
}

// MenuCost prices a dish list at known unit costs.
func (s *DashboardService) MenuCost(ctx context.Context, dishes []string, sales map[string]int) (menu.CostReport, error) {
	planner, err := s.menuPlanner(ctx)
	if err != nil {
		return menu.CostReport{}, err
	}
	ds, _, err := s.ensureLoaded(ctx)
	if err != nil {
		return menu.CostReport{}, err
	}
	return planner.Cost(dishes, sales, s.unitCostsFor(ds), s.cfg.Cost.DefaultUnitCost), nil
}

// MenuSubstitutions ranks replacement candidates for an ingredient.
func (s *DashboardService) MenuSubstitutions(ctx context.Context, ingredient string, limit int) ([]menu.Substitute, error) {
	planner, err := s.menuPlanner(ctx)
	if err != nil {
		return nil, err
	}
	return planner.Substitutions(ingredient, limit)
}

func (s *DashboardService) menuPlanner(ctx context.Context) (*menu.Planner, error) {
	if _, _, err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planner, nil
}

// ExportData assembles the dataset the CSV report writers consume.
func (s *DashboardService) ExportData(ctx context.Context) (export.Dataset, error) {
	ds, snap, err := s.ensureLoaded(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	results, skipped, err := forecast.ForecastAll(forecast.MethodEnsemble, ds.Usage, ds.Units(), s.cfg.Forecast.Horizon, s.forecastConfig())
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: forecast export unavailable")
		results = nil
	}
	if len(skipped) > 0 {
		log.Debug().Strs("ingredients", skipped).Msg("dashboard: skipped in forecast export")
	}

	return export.Dataset{
		States:    snap.States,
		Reorders:  inventory.ReorderList(snap.States),
		EOQ:       snap.CostRows,
		Forecasts: results,
		Spend:     snap.SpendTrend,
		Alerts:    snap.Alerts,
	}, nil
}
