// internal/api/handlers/dashboard_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/maishenyun/stockboard/internal/cache"
	"github.com/maishenyun/stockboard/internal/domain"
	"github.com/maishenyun/stockboard/internal/service"
)

// SourcePuller downloads fresh source files into the data directory before a
// reload. Wired only when remote source sync is configured.
type SourcePuller interface {
	Pull(ctx context.Context) (int, error)
}

type DashboardHandler struct {
	svc    *service.DashboardService
	source SourcePuller
}

func NewDashboardHandler(svc *service.DashboardService, source SourcePuller) *DashboardHandler {
	return &DashboardHandler{svc: svc, source: source}
}

// respondError maps the domain error taxonomy onto HTTP statuses: invalid
// parameters are the caller's fault, thin data is unprocessable, everything
// else is a 500 with the detail kept in the log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// respondCached renders a payload through the response cache.
func (h *DashboardHandler) respondCached(c *gin.Context, key string, build func() (interface{}, error)) {
	payload, err := h.svc.CachedJSON(c.Request.Context(), key, build)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query(name))); err == nil {
		return v
	}
	return fallback
}

func parseFloatQuery(c *gin.Context, name string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(c.Query(name)), 64); err == nil {
		return v
	}
	return fallback
}

func (h *DashboardHandler) parseInventoryFilter(c *gin.Context) domain.InventoryFilter {
	f := domain.InventoryFilter{Page: 1, PageSize: 50}

	if page := parseIntQuery(c, "page", 1); page > 0 {
		f.Page = page
	}
	if size := parseIntQuery(c, "page_size", 50); size > 0 {
		f.PageSize = size
	}
	f.Status = strings.ToLower(strings.TrimSpace(c.Query("status")))
	f.Search = strings.TrimSpace(c.Query("search"))
	f.SortBy = strings.ToLower(strings.TrimSpace(c.Query("sort")))

	return f
}

// ListInventory returns the filtered, paginated inventory state table.
func (h *DashboardHandler) ListInventory(c *gin.Context) {
	f := h.parseInventoryFilter(c)
	key := cache.Key("inventory",
		"status="+f.Status, "search="+f.Search, "sort="+f.SortBy,
		fmt.Sprintf("page=%d", f.Page), fmt.Sprintf("size=%d", f.PageSize))

	h.respondCached(c, key, func() (interface{}, error) {
		items, total, err := h.svc.Inventory(c.Request.Context(), f)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"items":     items,
			"total":     total,
			"page":      f.Page,
			"page_size": f.PageSize,
		}, nil
	})
}

// GetInventorySummary returns the headline stock counts.
func (h *DashboardHandler) GetInventorySummary(c *gin.Context) {
	h.respondCached(c, cache.Key("inventory_summary"), func() (interface{}, error) {
		sum, err := h.svc.InventorySummary(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return sum, nil
	})
}

// ListReorders returns the low-stock order list, most urgent first.
func (h *DashboardHandler) ListReorders(c *gin.Context) {
	h.respondCached(c, cache.Key("reorders"), func() (interface{}, error) {
		items, err := h.svc.Reorders(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"items": items, "total": len(items)}, nil
	})
}

// GetDataSummary describes the loaded dataset.
func (h *DashboardHandler) GetDataSummary(c *gin.Context) {
	h.respondCached(c, cache.Key("summary"), func() (interface{}, error) {
		sum, err := h.svc.DataSummary(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return sum, nil
	})
}

// Refresh reloads the source files and rebuilds every derived table. With
// ?pull=true it first downloads fresh sources from remote storage.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	resp := gin.H{}

	if c.Query("pull") == "true" {
		if h.source == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "source sync is not configured"})
			return
		}
		pulled, err := h.source.Pull(ctx)
		if err != nil {
			log.Error().Err(err).Msg("source pull failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "source pull failed"})
			return
		}
		resp["pulled_files"] = pulled
	}

	snap, err := h.svc.Refresh(ctx, true)
	if err != nil {
		respondError(c, err)
		return
	}

	resp["status"] = "refreshed"
	resp["fingerprint"] = snap.Fingerprint
	resp["generated_at"] = snap.GeneratedAt
	resp["warnings"] = len(snap.Warnings)
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
