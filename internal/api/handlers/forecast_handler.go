package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maishenyun/stockboard/internal/cache"
	"github.com/maishenyun/stockboard/internal/forecast"
)

// GetForecast projects usage for one ingredient. Method defaults to the
// ensemble; horizon, window and alpha override the configured values.
func (h *DashboardHandler) GetForecast(c *gin.Context) {
	ingredient := c.Param("ingredient")

	raw := c.DefaultQuery("method", string(forecast.MethodEnsemble))
	method, ok := forecast.ParseMethod(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown forecast method %q", raw)})
		return
	}

	horizon := parseIntQuery(c, "horizon", 0)
	override := forecast.Config{
		Window: parseIntQuery(c, "window", 0),
		Alpha:  parseFloatQuery(c, "alpha", 0),
	}

	key := cache.Key("forecast",
		"ingredient="+ingredient, "method="+string(method),
		fmt.Sprintf("horizon=%d", horizon),
		fmt.Sprintf("window=%d", override.Window),
		fmt.Sprintf("alpha=%v", override.Alpha))

	h.respondCached(c, key, func() (interface{}, error) {
		return h.svc.Forecast(c.Request.Context(), ingredient, method, horizon, override)
	})
}

// GetForecastAccuracy backtests every method on the ingredient's history.
func (h *DashboardHandler) GetForecastAccuracy(c *gin.Context) {
	ingredient := c.Param("ingredient")
	holdout := parseIntQuery(c, "holdout", 0)

	key := cache.Key("accuracy", "ingredient="+ingredient, fmt.Sprintf("holdout=%d", holdout))
	h.respondCached(c, key, func() (interface{}, error) {
		rows, err := h.svc.ForecastAccuracy(c.Request.Context(), ingredient, holdout)
		if err != nil {
			return nil, err
		}
		return gin.H{"ingredient": ingredient, "methods": rows}, nil
	})
}

// GetForecastSchedule projects the reorder date for every ingredient.
func (h *DashboardHandler) GetForecastSchedule(c *gin.Context) {
	h.respondCached(c, cache.Key("schedule"), func() (interface{}, error) {
		rows, err := h.svc.Schedule(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": rows}, nil
	})
}
