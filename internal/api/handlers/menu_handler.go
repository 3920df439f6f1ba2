package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maishenyun/stockboard/internal/cache"
)

type menuRequest struct {
	Dishes        []string       `json:"dishes"`
	ExpectedSales map[string]int `json:"expected_sales"`
}

type menuCompareRequest struct {
	Current      []string       `json:"current"`
	Planned      []string       `json:"planned"`
	CurrentSales map[string]int `json:"current_sales"`
	PlannedSales map[string]int `json:"planned_sales"`
}

func bindMenuRequest(c *gin.Context) (menuRequest, bool) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return req, false
	}
	if len(req.Dishes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dishes are required"})
		return req, false
	}
	return req, true
}

// PostMenuRequirements totals ingredient needs for a dish list.
func (h *DashboardHandler) PostMenuRequirements(c *gin.Context) {
	req, ok := bindMenuRequest(c)
	if !ok {
		return
	}

	reqs, missing, err := h.svc.MenuRequirements(c.Request.Context(), req.Dishes, req.ExpectedSales)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requirements": reqs, "missing_dishes": missing})
}

// PostMenuAvailability checks a dish list against current stock.
func (h *DashboardHandler) PostMenuAvailability(c *gin.Context) {
	req, ok := bindMenuRequest(c)
	if !ok {
		return
	}

	avail, reqs, err := h.svc.MenuAvailability(c.Request.Context(), req.Dishes, req.ExpectedSales)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": avail, "requirements": reqs})
}

// PostMenuCompare diffs a current and a planned dish list.
func (h *DashboardHandler) PostMenuCompare(c *gin.Context) {
	var req menuCompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Current) == 0 && len(req.Planned) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current or planned dishes are required"})
		return
	}

	diff, err := h.svc.MenuCompare(c.Request.Context(), req.Current, req.Planned, req.CurrentSales, req.PlannedSales)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, diff)
}

// PostMenuCost prices a dish list at known unit costs.
func (h *DashboardHandler) PostMenuCost(c *gin.Context) {
	req, ok := bindMenuRequest(c)
	if !ok {
		return
	}

	report, err := h.svc.MenuCost(c.Request.Context(), req.Dishes, req.ExpectedSales)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMenuSubstitutions ranks replacement candidates for an ingredient by how
// many dishes they share with it.
func (h *DashboardHandler) GetMenuSubstitutions(c *gin.Context) {
	ingredient := c.Query("ingredient")
	if ingredient == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient parameter is required"})
		return
	}
	limit := parseIntQuery(c, "limit", 0)

	key := cache.Key("substitutions", "ingredient="+ingredient, fmt.Sprintf("limit=%d", limit))
	h.respondCached(c, key, func() (interface{}, error) {
		subs, err := h.svc.MenuSubstitutions(c.Request.Context(), ingredient, limit)
		if err != nil {
			return nil, err
		}
		return gin.H{"ingredient": ingredient, "substitutes": subs}, nil
	})
}
