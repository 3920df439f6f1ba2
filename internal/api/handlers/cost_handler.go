package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/maishenyun/stockboard/internal/cache"
	"github.com/maishenyun/stockboard/internal/cost"
)

// GetEOQ returns the order-size optimization table.
func (h *DashboardHandler) GetEOQ(c *gin.Context) {
	h.respondCached(c, cache.Key("eoq"), func() (interface{}, error) {
		items, err := h.svc.EOQ(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": items}, nil
	})
}

// GetSpend returns purchase value aggregated by period and by ingredient.
func (h *DashboardHandler) GetSpend(c *gin.Context) {
	h.respondCached(c, cache.Key("spend"), func() (interface{}, error) {
		return h.svc.Spend(c.Request.Context())
	})
}

// GetWaste returns the received-minus-used waste estimate.
func (h *DashboardHandler) GetWaste(c *gin.Context) {
	h.respondCached(c, cache.Key("waste"), func() (interface{}, error) {
		items, categories, err := h.svc.Waste(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": items, "by_category": categories}, nil
	})
}

type roiRequest struct {
	Investment    float64 `json:"investment"`
	AnnualSavings float64 `json:"annual_savings"`
}

// PostROI evaluates the return on an inventory-process investment.
func (h *DashboardHandler) PostROI(c *gin.Context) {
	var req roiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := cost.EvaluateROI(req.Investment, req.AnnualSavings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetConvert re-denominates an amount between supported currencies.
func (h *DashboardHandler) GetConvert(c *gin.Context) {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.Query("amount")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}

	from := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("from", "USD")))
	to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to currency is required"})
		return
	}

	converted, err := cost.Convert(amount, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
	})
}
