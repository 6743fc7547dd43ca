package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/service"
)

// RouteOptions tunes the routes that depend on configuration
type RouteOptions struct {
	DefaultMode     string
	ExportPerMinute int
	Logger          *zap.Logger
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, dashboardSvc *service.DashboardService, opts RouteOptions) {
	handler := NewHandler(dashboardSvc, opts.DefaultMode, opts.Logger)

	// Health check and metrics
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Dataset lifecycle
		api.Post("/dataset/load", handler.LoadDataset)
		api.Get("/dataset", handler.GetDataset)
		api.Delete("/dataset", handler.InvalidateDataset)

		// Views over the filtered dataset
		api.Get("/overview", handler.GetOverview)
		api.Get("/summary", handler.GetSummary)
		api.Get("/options", handler.GetOptions)
		api.Get("/records", handler.GetRecords)
		api.Get("/charts", handler.GetCharts)
		api.Get("/charts/:name.png", handler.GetChartPNG)
		api.Get("/map/points", handler.GetMapPoints)
		api.Get("/map/regions", handler.GetMapRegions)

		// Downloads share one rate limit
		limit := rateLimit(opts.ExportPerMinute)
		api.Get("/records/export.csv", limit, handler.ExportCSV)
		api.Get("/records/export.xlsx", limit, handler.ExportXLSX)
	}
}
