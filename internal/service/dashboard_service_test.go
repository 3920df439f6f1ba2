package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maishenyun/stockboard/internal/alerts"
	"github.com/maishenyun/stockboard/internal/cache"
	"github.com/maishenyun/stockboard/internal/config"
	"github.com/maishenyun/stockboard/internal/domain"
	"github.com/maishenyun/stockboard/internal/forecast"
	"github.com/maishenyun/stockboard/internal/ingest"
	"github.com/maishenyun/stockboard/internal/menu"
	"github.com/maishenyun/stockboard/internal/metrics"
	"github.com/maishenyun/stockboard/internal/snapshot"
)

// writeSources lays out a small but complete data directory. Flour sits below
// its reorder point, Tomato is normal, Beef is overstocked, and the usage
// directory carries a "mystery" series with no shipment row.
func writeSources(t *testing.T, withStocks bool) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"shipments.csv": "ingredient,unit,qty_per_shipment,shipments_per_month,frequency\n" +
			"Flour,kg,40,3,weekly\n" +
			"Tomato,kg,12,4,daily\n" +
			"Beef,kg,20,2,weekly\n",
		"recipes.csv": "dish,Flour,Tomato,Beef\n" +
			"Pizza,0.3,0.2,\n" +
			"Burger,0.1,,0.15\n",
	}
	for _, month := range []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"} {
		files[filepath.Join("usage", month+".csv")] = "day,flour,tomato,beef,mystery\n15,120,48,40,9\n"
	}
	if withStocks {
		files["stock_levels.csv"] = "ingredient,quantity\nFlour,30\nTomato,40\nBeef,100\n"
		files["unit_costs.csv"] = "ingredient,unit_cost\nflour,2.5\ntomato,3\nbeef,12\n"
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func testConfig() *config.Config {
	return &config.Config{
		Inventory: config.InventoryConfig{SafetyStockDays: 7, OverstockDays: 60},
		Forecast: config.ForecastConfig{
			Window:  3,
			Alpha:   0.3,
			Weights: []float64{0.5, 0.3, 0.2},
			Horizon: 3,
			Holdout: 2,
		},
		Cost: config.CostConfig{OrderingCost: 50, HoldingRate: 0.25, DefaultUnitCost: 5},
		Sim:  config.SimConfig{Enabled: false, Seed: 17},
	}
}

func newTestService(t *testing.T, dir string, cfg *config.Config, c cache.ResponseCache) *DashboardService {
	t.Helper()
	return NewDashboardService(ingest.NewLoader(dir, ""), snapshot.NewStore(0), c, metrics.New(), cfg)
}

func TestRefreshBuildsSnapshot(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)

	snap, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.NotEmpty(t, snap.Fingerprint)
	assert.Equal(t, domain.StockSourceFile, snap.StockSource)

	require.Len(t, snap.States, 3)
	statuses := make(map[string]domain.StockStatus, len(snap.States))
	for _, st := range snap.States {
		statuses[st.Ingredient] = st.Status
	}
	assert.Equal(t, domain.StatusLow, statuses["Flour"])
	assert.Equal(t, domain.StatusNormal, statuses["Tomato"])
	assert.Equal(t, domain.StatusOverstock, statuses["Beef"])

	assert.NotEmpty(t, snap.ABC)
	assert.NotEmpty(t, snap.Seasonal)
	assert.NotEmpty(t, snap.Turnover)
	assert.NotEmpty(t, snap.CostRows)

	// flat usage history raises no anomaly alerts, so only the two stock
	// position alerts remain: Flour at 7.5 days, Beef 15 days over the bound
	require.Len(t, snap.Alerts, 2)
	assert.Equal(t, "Flour", snap.Alerts[0].Ingredient)
	assert.Equal(t, alerts.CategoryStockout, snap.Alerts[0].Category)
	assert.Equal(t, alerts.PriorityMedium, snap.Alerts[0].Priority)
	assert.Equal(t, "Beef", snap.Alerts[1].Ingredient)
	assert.Equal(t, alerts.CategoryOverstock, snap.Alerts[1].Category)
}

func TestRefreshMemoizesByFingerprint(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)
	ctx := context.Background()

	first, err := svc.Refresh(ctx, false)
	require.NoError(t, err)
	second, err := svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged sources reuse the memoized snapshot")

	// touching a source file changes the fingerprint and forces a rebuild
	path := filepath.Join(dir, "stock_levels.csv")
	require.NoError(t, os.WriteFile(path, []byte("ingredient,quantity\nFlour,31\nTomato,40\nBeef,100\n"), 0o644))

	third, err := svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)
}

func TestForceRefreshRebuildsAndClearsCache(t *testing.T) {
	dir := writeSources(t, true)
	fc := newFakeCache()
	svc := newTestService(t, dir, testConfig(), fc)
	ctx := context.Background()

	first, err := svc.Refresh(ctx, false)
	require.NoError(t, err)
	require.NoError(t, fc.Set(ctx, cache.Key("inventory"), []byte(`{}`)))

	second, err := svc.Refresh(ctx, true)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Zero(t, fc.len(), "force refresh drops every cached response")
}

func TestSimulationFallbackWhenNoStockFile(t *testing.T) {
	dir := writeSources(t, false)
	cfg := testConfig()
	cfg.Sim.Enabled = true
	cfg.Sim.Seed = 42
	svc := newTestService(t, dir, cfg, nil)
	ctx := context.Background()

	snap, err := svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, domain.StockSourceSimulation, snap.StockSource)
	require.Len(t, snap.States, 3)
	for _, st := range snap.States {
		assert.Greater(t, st.CurrentStock, 0.0, st.Ingredient)
		assert.Equal(t, domain.StockSourceSimulation, st.StockSource)
	}

	sum, err := svc.InventorySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StockSourceSimulation, sum.StockSource)
	assert.Equal(t, 1, sum.ExcludedCount, "mystery series has no shipment row")
}

func TestNoStocksWithoutSimulation(t *testing.T) {
	dir := writeSources(t, false)
	svc := newTestService(t, dir, testConfig(), nil)
	ctx := context.Background()

	snap, err := svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, domain.StockSourceNone, snap.StockSource)

	sum, err := svc.InventorySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.LowCount, "zero stock sits below every reorder point")
}

func TestInventoryFilterAndReorders(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)
	ctx := context.Background()

	states, total, err := svc.Inventory(ctx, domain.InventoryFilter{Status: "low"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, states, 1)
	assert.Equal(t, "Flour", states[0].Ingredient)

	reorders, err := svc.Reorders(ctx)
	require.NoError(t, err)
	require.Len(t, reorders, 1)
	assert.Equal(t, "Flour", reorders[0].Ingredient)
	// shortfall to the reorder point (56 - 30) plus one shipment of 40
	assert.InDelta(t, 66.0, reorders[0].RecommendedOrder, 1e-9)
}

func TestForecastUsesConfiguredDefaults(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)

	res, err := svc.Forecast(context.Background(), "flour", forecast.MethodMovingAverage, 0, forecast.Config{})
	require.NoError(t, err)
	assert.Equal(t, "Flour", res.Ingredient, "lookup resolves to the shipment spelling")
	assert.Equal(t, "kg", res.Unit)
	require.Len(t, res.Points, 3, "zero horizon falls back to the configured one")
	assert.Equal(t, "2025-07", res.Points[0].Period)
	for _, p := range res.Points {
		assert.InDelta(t, 120.0, p.Value, 1e-9)
	}
}

func TestForecastOverrideValidation(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)
	ctx := context.Background()

	_, err := svc.Forecast(ctx, "flour", forecast.MethodExponentialSmoothing, 0, forecast.Config{Alpha: 1.5})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = svc.Forecast(ctx, "saffron", forecast.MethodMovingAverage, 0, forecast.Config{})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestForecastAccuracyBacktestsEveryMethod(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)

	rows, err := svc.ForecastAccuracy(context.Background(), "flour", 2)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.InDelta(t, 0.0, r.MAE, 1e-9, "flat series backtests perfectly with %s", r.Method)
		assert.Equal(t, 2, r.Holdout)
	}
}

func TestMenuRequirementsAndAvailability(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)
	ctx := context.Background()

	reqs, missing, err := svc.MenuRequirements(ctx, []string{"Pizza", "Ghost"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ghost"}, missing)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Flour", reqs[0].Ingredient)
	assert.InDelta(t, 30.0, reqs[0].Quantity, 1e-9)
	assert.Equal(t, "Tomato", reqs[1].Ingredient)
	assert.InDelta(t, 20.0, reqs[1].Quantity, 1e-9)

	// at default sales Pizza needs exactly the Flour on hand: a thin buffer
	avail, _, err := svc.MenuAvailability(ctx, []string{"Pizza"}, nil)
	require.NoError(t, err)
	assert.Equal(t, menu.StatusWarning, avail.Status)
	assert.Empty(t, avail.Issues)
	require.Len(t, avail.Warnings, 1)
	assert.Equal(t, "Flour", avail.Warnings[0].Ingredient)

	// tripling sales outruns both Flour and Tomato
	avail, _, err = svc.MenuAvailability(ctx, []string{"Pizza"}, map[string]int{"Pizza": 300})
	require.NoError(t, err)
	assert.Equal(t, menu.StatusCritical, avail.Status)
	require.Len(t, avail.Issues, 2)
	assert.Equal(t, "Flour", avail.Issues[0].Ingredient)
	assert.InDelta(t, 60.0, avail.Issues[0].Shortage, 1e-9)
	assert.Equal(t, menu.SeverityCritical, avail.Issues[0].Severity)
	assert.Equal(t, "Tomato", avail.Issues[1].Ingredient)
	assert.Equal(t, menu.SeverityModerate, avail.Issues[1].Severity)
}

func TestMenuCostAndCompare(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)
	ctx := context.Background()

	report, err := svc.MenuCost(ctx, []string{"Pizza"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "135.00", report.Total.StringFixed(2))
	assert.Equal(t, "135.00", report.PerDish.StringFixed(2))

	diff, err := svc.MenuCompare(ctx, []string{"Pizza"}, []string{"Pizza", "Burger"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Burger"}, diff.Added)
	assert.Equal(t, []string{"Pizza"}, diff.Shared)
	require.NotEmpty(t, diff.Changes)
	assert.Equal(t, "Beef", diff.Changes[0].Ingredient)
	assert.InDelta(t, 15.0, diff.Changes[0].Delta, 1e-9)
	assert.InDelta(t, 100.0, diff.Changes[0].DeltaPct, 1e-9)
}

func TestMenuSubstitutions(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)

	subs, err := svc.MenuSubstitutions(context.Background(), "flour", 0)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Beef", subs[0].Ingredient)
	assert.Equal(t, "Tomato", subs[1].Ingredient)
	assert.InDelta(t, 0.5, subs[0].Similarity, 1e-9)
}

func TestExportDataShape(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)

	data, err := svc.ExportData(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.States, 3)
	require.Len(t, data.Reorders, 1)
	assert.Equal(t, "Flour", data.Reorders[0].Ingredient)
	assert.NotEmpty(t, data.EOQ)
	assert.Len(t, data.Forecasts, 4, "every usage series projects, shipment row or not")
	assert.Len(t, data.Alerts, 2)
	assert.False(t, data.Spend.GrandTotal.IsZero())
}

func TestDataSummary(t *testing.T) {
	dir := writeSources(t, true)
	svc := newTestService(t, dir, testConfig(), nil)

	sum, err := svc.DataSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Ingredients)
	assert.Equal(t, 2, sum.Dishes)
	assert.Equal(t, 6, sum.UsagePeriods)
	require.NotNil(t, sum.FirstPeriod)
	assert.Equal(t, "2025-01", sum.FirstPeriod.Format("2006-01"))
}

func TestCachedJSON(t *testing.T) {
	dir := writeSources(t, true)
	fc := newFakeCache()
	svc := newTestService(t, dir, testConfig(), fc)
	ctx := context.Background()

	builds := 0
	build := func() (interface{}, error) {
		builds++
		return map[string]int{"n": 1}, nil
	}

	payload, err := svc.CachedJSON(ctx, cache.Key("summary"), build)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(payload))

	again, err := svc.CachedJSON(ctx, cache.Key("summary"), build)
	require.NoError(t, err)
	assert.Equal(t, payload, again)
	assert.Equal(t, 1, builds, "second read served from cache")

	_, err = svc.CachedJSON(ctx, cache.Key("boom"), func() (interface{}, error) {
		return nil, errors.New("render failed")
	})
	require.Error(t, err)
	assert.Zero(t, fc.lenFor(cache.Key("boom")), "failed renders are not cached")
}

// fakeCache is an in-memory ResponseCache for wiring tests.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[key]
	return payload, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = payload
	return nil
}

func (f *fakeCache) InvalidateAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string][]byte)
	return nil
}

func (f *fakeCache) Close() error { return nil }

func (f *fakeCache) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *fakeCache) lenFor(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries[key])
}

func quarantinedTotal(t *testing.T, m *metrics.Metrics) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "stockboard_quarantined_rows_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestRefreshCountsQuarantinedOncePerRebuild(t *testing.T) {
	dir := writeSources(t, true)
	m := metrics.New()
	svc := NewDashboardService(ingest.NewLoader(dir, ""), snapshot.NewStore(0), nil, m, testConfig())

	ctx := context.Background()
	snap, err := svc.Refresh(ctx, false)
	require.NoError(t, err)
	warnings := len(snap.Warnings)
	require.Greater(t, warnings, 0, "the mystery series should be quarantined")
	assert.Equal(t, float64(warnings), quarantinedTotal(t, m))

	// reloading unchanged inputs hits the memo and must not inflate the total
	_, err = svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, float64(warnings), quarantinedTotal(t, m))
}
