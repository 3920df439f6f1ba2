package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/maishenyun/stockboard/internal/cache"
)

// GetABC returns the usage-value classification.
func (h *DashboardHandler) GetABC(c *gin.Context) {
	h.respondCached(c, cache.Key("abc"), func() (interface{}, error) {
		items, err := h.svc.ABC(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": items}, nil
	})
}

// GetCorrelations returns the pairwise usage correlation matrix.
func (h *DashboardHandler) GetCorrelations(c *gin.Context) {
	h.respondCached(c, cache.Key("correlation"), func() (interface{}, error) {
		return h.svc.Correlations(c.Request.Context())
	})
}

// GetSeasonal returns the month-by-month usage matrix.
func (h *DashboardHandler) GetSeasonal(c *gin.Context) {
	h.respondCached(c, cache.Key("seasonal"), func() (interface{}, error) {
		rows, err := h.svc.Seasonal(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": rows}, nil
	})
}

// GetTrend returns descriptive usage statistics for one ingredient.
func (h *DashboardHandler) GetTrend(c *gin.Context) {
	ingredient := c.Param("ingredient")
	h.respondCached(c, cache.Key("trend", "ingredient="+ingredient), func() (interface{}, error) {
		return h.svc.Trend(c.Request.Context(), ingredient)
	})
}

// GetTurnover returns the stock turnover table.
func (h *DashboardHandler) GetTurnover(c *gin.Context) {
	h.respondCached(c, cache.Key("turnover"), func() (interface{}, error) {
		items, err := h.svc.Turnover(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": items}, nil
	})
}

// GetStockoutRisks returns lead-time coverage risk per ingredient.
func (h *DashboardHandler) GetStockoutRisks(c *gin.Context) {
	h.respondCached(c, cache.Key("stockout_risk"), func() (interface{}, error) {
		items, err := h.svc.StockoutRisks(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": items}, nil
	})
}
