// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/maishenyun/stockboard/internal/api/handlers"
	"github.com/maishenyun/stockboard/internal/api/middleware"
	"github.com/maishenyun/stockboard/internal/metrics"
	"github.com/maishenyun/stockboard/internal/service"
)

type Services struct {
	Dashboard *service.DashboardService
	Source    handlers.SourcePuller
}

func NewRouter(services *Services, m *metrics.Metrics, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if m != nil {
		router.Use(middleware.Metrics(m))
	}

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil && services.Dashboard != nil {
		h := handlers.NewDashboardHandler(services.Dashboard, services.Source)

		apiGroup.GET("/health", h.Health)
		apiGroup.GET("/summary", h.GetDataSummary)
		apiGroup.POST("/refresh", h.Refresh)
		apiGroup.GET("/export/:report", h.ExportReport)

		inventoryGroup := apiGroup.Group("/inventory")
		{
			inventoryGroup.GET("", h.ListInventory)
			inventoryGroup.GET("/summary", h.GetInventorySummary)
			inventoryGroup.GET("/reorders", h.ListReorders)
		}

		forecastGroup := apiGroup.Group("/forecasts")
		{
			forecastGroup.GET("/schedule", h.GetForecastSchedule)
			forecastGroup.GET("/:ingredient", h.GetForecast)
			forecastGroup.GET("/:ingredient/accuracy", h.GetForecastAccuracy)
		}

		analyticsGroup := apiGroup.Group("/analytics")
		{
			analyticsGroup.GET("/abc", h.GetABC)
			analyticsGroup.GET("/correlation", h.GetCorrelations)
			analyticsGroup.GET("/seasonal", h.GetSeasonal)
			analyticsGroup.GET("/trends/:ingredient", h.GetTrend)
			analyticsGroup.GET("/turnover", h.GetTurnover)
			analyticsGroup.GET("/stockout-risk", h.GetStockoutRisks)
		}

		costGroup := apiGroup.Group("/costs")
		{
			costGroup.GET("/eoq", h.GetEOQ)
			costGroup.GET("/spend", h.GetSpend)
			costGroup.GET("/waste", h.GetWaste)
			costGroup.POST("/roi", h.PostROI)
			costGroup.GET("/convert", h.GetConvert)
		}

		alertGroup := apiGroup.Group("/alerts")
		{
			alertGroup.GET("", h.ListAlerts)
			alertGroup.GET("/summary", h.GetAlertSummary)
		}

		menuGroup := apiGroup.Group("/menu")
		{
			menuGroup.POST("/requirements", h.PostMenuRequirements)
			menuGroup.POST("/availability", h.PostMenuAvailability)
			menuGroup.POST("/compare", h.PostMenuCompare)
			menuGroup.POST("/cost", h.PostMenuCost)
			menuGroup.GET("/substitutions", h.GetMenuSubstitutions)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
