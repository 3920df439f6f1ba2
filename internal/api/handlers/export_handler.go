package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maishenyun/stockboard/internal/export"
)

// ExportReport streams one report as a CSV attachment. Unknown report names
// are a 400.
func (h *DashboardHandler) ExportReport(c *gin.Context) {
	report := strings.ToLower(strings.TrimSpace(c.Param("report")))

	data, err := h.svc.ExportData(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, report, data); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(report)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
