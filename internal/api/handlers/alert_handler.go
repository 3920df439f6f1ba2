package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/maishenyun/stockboard/internal/cache"
)

// ListAlerts returns every active alert, highest priority first.
func (h *DashboardHandler) ListAlerts(c *gin.Context) {
	h.respondCached(c, cache.Key("alerts"), func() (interface{}, error) {
		items, err := h.svc.Alerts(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": items, "total": len(items)}, nil
	})
}

// GetAlertSummary returns alert counts and the top insight lines.
func (h *DashboardHandler) GetAlertSummary(c *gin.Context) {
	h.respondCached(c, cache.Key("alert_summary"), func() (interface{}, error) {
		return h.svc.AlertSummary(c.Request.Context())
	})
}
