package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maishenyun/stockboard/internal/config"
	"github.com/maishenyun/stockboard/internal/ingest"
	"github.com/maishenyun/stockboard/internal/metrics"
	"github.com/maishenyun/stockboard/internal/service"
	"github.com/maishenyun/stockboard/internal/snapshot"
)

func writeFixtures(t *testing.T) string {
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
		"stock_levels.csv": "ingredient,quantity\nFlour,30\nTomato,40\nBeef,100\n",
		"unit_costs.csv":   "ingredient,unit_cost\nflour,2.5\ntomato,3\nbeef,12\n",
	}
	for _, month := range []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"} {
		files[filepath.Join("usage", month+".csv")] = "day,flour,tomato,beef\n15,120,48,40\n"
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newTestRouter(t *testing.T, source *fakePuller) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Inventory: config.InventoryConfig{SafetyStockDays: 7, OverstockDays: 60},
		Forecast: config.ForecastConfig{
			Window: 3, Alpha: 0.3, Weights: []float64{0.5, 0.3, 0.2}, Horizon: 3, Holdout: 2,
		},
		Cost: config.CostConfig{OrderingCost: 50, HoldingRate: 0.25, DefaultUnitCost: 5},
	}
	svc := service.NewDashboardService(
		ingest.NewLoader(writeFixtures(t), ""), snapshot.NewStore(0), nil, metrics.New(), cfg)

	services := &Services{Dashboard: svc}
	if source != nil {
		services.Source = source
	}
	return NewRouter(services, metrics.New(), nil)
}

type fakePuller struct {
	files int
	calls int
}

func (f *fakePuller) Pull(ctx context.Context) (int, error) {
	f.calls++
	return f.files, nil
}

func doGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func doPost(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	w := doGet(t, router, "/api/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestInventoryEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/api/v1/inventory?status=low")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			Ingredient string `json:"ingredient"`
			Status     string `json:"status"`
		} `json:"items"`
		Total int `json:"total"`
	}
	decode(t, w, &list)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Flour", list.Items[0].Ingredient)
	assert.Equal(t, "low", list.Items[0].Status)

	w = doGet(t, router, "/api/v1/inventory/summary")
	require.Equal(t, http.StatusOK, w.Code)
	var sum struct {
		TotalIngredients int    `json:"total_ingredients"`
		LowCount         int    `json:"low_count"`
		StockSource      string `json:"stock_source"`
	}
	decode(t, w, &sum)
	assert.Equal(t, 3, sum.TotalIngredients)
	assert.Equal(t, 1, sum.LowCount)
	assert.Equal(t, "file", sum.StockSource)

	w = doGet(t, router, "/api/v1/inventory/reorders")
	require.Equal(t, http.StatusOK, w.Code)
	var reorders struct {
		Total int `json:"total"`
	}
	decode(t, w, &reorders)
	assert.Equal(t, 1, reorders.Total)
}

func TestForecastEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/api/v1/forecasts/flour?method=moving_average")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Ingredient string `json:"ingredient"`
		Method     string `json:"method"`
		Points     []struct {
			Period string  `json:"period"`
			Value  float64 `json:"value"`
		} `json:"points"`
	}
	decode(t, w, &res)
	assert.Equal(t, "Flour", res.Ingredient)
	assert.Equal(t, "moving_average", res.Method)
	require.Len(t, res.Points, 3)
	assert.Equal(t, "2025-07", res.Points[0].Period)
	assert.InDelta(t, 120.0, res.Points[0].Value, 1e-9)

	w = doGet(t, router, "/api/v1/forecasts/flour?method=crystal_ball")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, router, "/api/v1/forecasts/flour?method=exponential_smoothing&alpha=1.5")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, router, "/api/v1/forecasts/saffron")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doGet(t, router, "/api/v1/forecasts/flour/accuracy")
	require.Equal(t, http.StatusOK, w.Code)
	var acc struct {
		Methods []struct {
			Method string `json:"method"`
		} `json:"methods"`
	}
	decode(t, w, &acc)
	assert.NotEmpty(t, acc.Methods)

	w = doGet(t, router, "/api/v1/forecasts/schedule")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{
		"/api/v1/analytics/abc",
		"/api/v1/analytics/correlation",
		"/api/v1/analytics/seasonal",
		"/api/v1/analytics/turnover",
		"/api/v1/analytics/stockout-risk",
		"/api/v1/analytics/trends/flour",
	} {
		w := doGet(t, router, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := doGet(t, router, "/api/v1/analytics/trends/saffron")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCostEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{
		"/api/v1/costs/eoq",
		"/api/v1/costs/spend",
		"/api/v1/costs/waste",
	} {
		w := doGet(t, router, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := doPost(t, router, "/api/v1/costs/roi", `{"investment":1000,"annual_savings":1500}`)
	require.Equal(t, http.StatusOK, w.Code)
	var roi struct {
		ROIPct float64 `json:"roi_pct"`
	}
	decode(t, w, &roi)
	assert.InDelta(t, 50.0, roi.ROIPct, 1e-9)

	w = doPost(t, router, "/api/v1/costs/roi", `{"investment":0,"annual_savings":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, router, "/api/v1/costs/convert?amount=100&from=USD&to=EUR")
	require.Equal(t, http.StatusOK, w.Code)
	var conv struct {
		Converted string `json:"converted"`
	}
	decode(t, w, &conv)
	assert.Equal(t, "92", conv.Converted)

	w = doGet(t, router, "/api/v1/costs/convert?amount=100&from=USD&to=XXX")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, router, "/api/v1/costs/convert?from=USD&to=EUR")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlertEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/api/v1/alerts")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
		Items []struct {
			Ingredient string `json:"ingredient"`
			Category   string `json:"category"`
		} `json:"items"`
	}
	decode(t, w, &list)
	assert.Equal(t, 2, list.Total)
	require.NotEmpty(t, list.Items)
	assert.Equal(t, "Flour", list.Items[0].Ingredient)
	assert.Equal(t, "stockout_risk", list.Items[0].Category)

	w = doGet(t, router, "/api/v1/alerts/summary")
	require.Equal(t, http.StatusOK, w.Code)
	var sum struct {
		Total    int      `json:"total"`
		Insights []string `json:"insights"`
	}
	decode(t, w, &sum)
	assert.Equal(t, 2, sum.Total)
	assert.NotEmpty(t, sum.Insights)
}

func TestMenuEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doPost(t, router, "/api/v1/menu/requirements", `{"dishes":["Pizza"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var reqs struct {
		Requirements []struct {
			Ingredient string  `json:"ingredient"`
			Quantity   float64 `json:"quantity"`
		} `json:"requirements"`
	}
	decode(t, w, &reqs)
	require.Len(t, reqs.Requirements, 2)
	assert.Equal(t, "Flour", reqs.Requirements[0].Ingredient)
	assert.InDelta(t, 30.0, reqs.Requirements[0].Quantity, 1e-9)

	w = doPost(t, router, "/api/v1/menu/requirements", `{"dishes":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doPost(t, router, "/api/v1/menu/availability", `{"dishes":["Pizza"],"expected_sales":{"Pizza":300}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var avail struct {
		Availability struct {
			Status string `json:"status"`
		} `json:"availability"`
	}
	decode(t, w, &avail)
	assert.Equal(t, "critical", avail.Availability.Status)

	w = doPost(t, router, "/api/v1/menu/compare", `{"current":["Pizza"],"planned":["Pizza","Burger"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var diff struct {
		Added []string `json:"added"`
	}
	decode(t, w, &diff)
	assert.Equal(t, []string{"Burger"}, diff.Added)

	w = doPost(t, router, "/api/v1/menu/cost", `{"dishes":["Pizza"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var costResp struct {
		Total string `json:"total"`
	}
	decode(t, w, &costResp)
	assert.Equal(t, "135", costResp.Total)

	w = doGet(t, router, "/api/v1/menu/substitutions?ingredient=flour")
	require.Equal(t, http.StatusOK, w.Code)
	var subs struct {
		Substitutes []struct {
			Ingredient string `json:"ingredient"`
		} `json:"substitutes"`
	}
	decode(t, w, &subs)
	require.Len(t, subs.Substitutes, 2)
	assert.Equal(t, "Beef", subs.Substitutes[0].Ingredient)

	w = doGet(t, router, "/api/v1/menu/substitutions")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(t, router, "/api/v1/menu/substitutions?ingredient=saffron")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/api/v1/export/inventory")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inventory.csv")
	firstLine := strings.SplitN(w.Body.String(), "\n", 2)[0]
	assert.True(t, strings.HasPrefix(firstLine, "ingredient,unit,current_stock"), firstLine)

	w = doGet(t, router, "/api/v1/export/bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doPost(t, router, "/api/v1/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status      string `json:"status"`
		Fingerprint string `json:"fingerprint"`
		Warnings    int    `json:"warnings"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "refreshed", resp.Status)
	assert.NotEmpty(t, resp.Fingerprint)

	// pull requested without a configured source
	w = doPost(t, router, "/api/v1/refresh?pull=true", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshPullsWhenConfigured(t *testing.T) {
	puller := &fakePuller{files: 4}
	router := newTestRouter(t, puller)

	w := doPost(t, router, "/api/v1/refresh?pull=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		PulledFiles int    `json:"pulled_files"`
		Status      string `json:"status"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 4, resp.PulledFiles)
	assert.Equal(t, "refreshed", resp.Status)
	assert.Equal(t, 1, puller.calls)
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, nil)
	w := doGet(t, router, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
