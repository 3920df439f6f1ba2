// Package export renders dashboard reports as CSV with fixed column orders,
// two-decimal floats and empty fields for undefined values.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/maishenyun/stockboard/internal/alerts"
	"github.com/maishenyun/stockboard/internal/cost"
	"github.com/maishenyun/stockboard/internal/domain"
	"github.com/maishenyun/stockboard/internal/forecast"
)

// Report names accepted by Write.
const (
	ReportInventory = "inventory"
	ReportReorders  = "reorders"
	ReportEOQ       = "eoq"
	ReportForecast  = "forecast"
	ReportSpend     = "spend"
	ReportAlerts    = "alerts"
)

// Reports lists the available report names in a stable order.
func Reports() []string {
	return []string{
		ReportAlerts,
		ReportEOQ,
		ReportForecast,
		ReportInventory,
		ReportReorders,
		ReportSpend,
	}
}

// Dataset carries everything the report writers can draw from. Writers only
// read the fields they need, so partial datasets are fine.
type Dataset struct {
	States    []domain.InventoryState
	Reorders  []domain.ReorderItem
	EOQ       []cost.EOQItem
	Forecasts []forecast.Result
	Spend     cost.SpendTrend
	Alerts    []alerts.Alert
}

// Write renders one report to w. Unknown report names are a caller error.
func Write(w io.Writer, report string, data Dataset) error {
	switch report {
	case ReportInventory:
		return WriteInventory(w, data.States)
	case ReportReorders:
		return WriteReorders(w, data.Reorders)
	case ReportEOQ:
		return WriteEOQ(w, data.EOQ)
	case ReportForecast:
		return WriteForecast(w, data.Forecasts)
	case ReportSpend:
		return WriteSpend(w, data.Spend)
	case ReportAlerts:
		return WriteAlerts(w, data.Alerts)
	default:
		return fmt.Errorf("%w: unknown report %q", domain.ErrInvalidConfig, report)
	}
}

// WriteInventory renders the full inventory table.
func WriteInventory(w io.Writer, states []domain.InventoryState) error {
	cw := csv.NewWriter(w)
	header := []string{
		"ingredient", "unit", "current_stock", "stock_source",
		"avg_daily_usage", "lead_time_days", "safety_stock",
		"reorder_point", "days_of_stock", "status", "recommended_order",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, st := range states {
		record := []string{
			st.Ingredient,
			st.Unit,
			formatFloat(st.CurrentStock),
			string(st.StockSource),
			formatFloat(st.AvgDailyUsage),
			strconv.Itoa(st.LeadTimeDays),
			formatFloat(st.SafetyStock),
			formatFloat(st.ReorderPoint),
			formatOptional(st.DaysOfStock),
			string(st.Status),
			formatFloat(st.RecommendedOrder),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReorders renders the reorder list.
func WriteReorders(w io.Writer, items []domain.ReorderItem) error {
	cw := csv.NewWriter(w)
	header := []string{
		"ingredient", "unit", "current_stock", "reorder_point",
		"recommended_order", "days_of_stock",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, it := range items {
		record := []string{
			it.Ingredient,
			it.Unit,
			formatFloat(it.CurrentStock),
			formatFloat(it.ReorderPoint),
			formatFloat(it.RecommendedOrder),
			formatOptional(it.DaysOfStock),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEOQ renders the order-size optimization table.
func WriteEOQ(w io.Writer, items []cost.EOQItem) error {
	cw := csv.NewWriter(w)
	header := []string{
		"ingredient", "annual_demand", "unit_cost", "ordering_cost",
		"holding_cost", "eoq", "current_order_qty", "monthly_volume",
		"recommendation",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, it := range items {
		record := []string{
			it.Ingredient,
			formatFloat(it.AnnualDemand),
			formatFloat(it.UnitCost),
			formatFloat(it.OrderingCost),
			formatFloat(it.HoldingCost),
			formatFloat(it.EOQ),
			formatFloat(it.CurrentOrderQty),
			formatFloat(it.MonthlyVolume),
			it.Recommendation,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteForecast renders one row per projected period.
func WriteForecast(w io.Writer, results []forecast.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"ingredient", "unit", "method", "period", "value"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, res := range results {
		for _, pt := range res.Points {
			record := []string{
				res.Ingredient,
				res.Unit,
				string(res.Method),
				pt.Period,
				formatFloat(pt.Value),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSpend renders the spend trend as a flat scope/name/total table with
// period rows first, then ingredient rows, then the grand total.
func WriteSpend(w io.Writer, trend cost.SpendTrend) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scope", "name", "total"}); err != nil {
		return err
	}
	for _, p := range trend.ByPeriod {
		if err := cw.Write([]string{"period", p.Period, p.Total.StringFixed(2)}); err != nil {
			return err
		}
	}
	for _, it := range trend.ByIngredient {
		if err := cw.Write([]string{"ingredient", it.Ingredient, it.Total.StringFixed(2)}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"grand", "", trend.GrandTotal.StringFixed(2)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteAlerts renders the active alert list.
func WriteAlerts(w io.Writer, list []alerts.Alert) error {
	cw := csv.NewWriter(w)
	header := []string{
		"ingredient", "priority", "category", "message",
		"days_of_stock", "z_score", "created_at",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range list {
		record := []string{
			a.Ingredient,
			string(a.Priority),
			string(a.Category),
			a.Message,
			formatOptional(a.DaysOfStock),
			formatOptional(a.ZScore),
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatOptional renders nil as an empty field.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
