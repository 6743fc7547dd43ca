package http

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/config"
	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	datasetSvc   *service.DatasetService
	defaultMode  string
	logger       *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(dashboardSvc *service.DashboardService, defaultMode string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dashboardSvc: dashboardSvc,
		datasetSvc:   dashboardSvc.Dataset(),
		defaultMode:  defaultMode,
		logger:       logger,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	source := "ok"
	if err := h.datasetSvc.Health(c.Context()); err != nil {
		status = "degraded"
		source = err.Error()
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"service": "accidents-api",
		"version": "1.0.0",
		"source":  source,
		"dataset": h.datasetSvc.State(),
	})
}

// LoadDataset fetches and loads the dataset in the requested mode
func (h *Handler) LoadDataset(c *fiber.Ctx) error {
	mode := c.Query("mode", h.defaultMode)
	size, err := config.SampleSizeForMode(mode)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if raw := c.Query("sample"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sample size")
		}
		size = &n
	}

	if _, err := h.datasetSvc.Load(c.Context(), size); err != nil {
		h.logger.Warn("dataset load failed", zap.String("mode", mode), zap.Error(err))
		return h.toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.datasetSvc.State(),
	})
}

// GetDataset returns the application state
func (h *Handler) GetDataset(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.datasetSvc.State(),
	})
}

// InvalidateDataset drops the cached and current dataset
func (h *Handler) InvalidateDataset(c *fiber.Ctx) error {
	h.datasetSvc.Invalidate()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.datasetSvc.State(),
	})
}

// GetSummary returns the statistics panel for the filtered rows
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}

	summary, err := h.dashboardSvc.GetSummary(spec)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"empty":   summary.TotalAccidents == 0,
		"data":    summary,
	})
}

// GetOptions returns the values offered by the filter controls
func (h *Handler) GetOptions(c *fiber.Ctx) error {
	opts, err := h.dashboardSvc.GetFilterOptions()
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    opts,
	})
}

// GetRecords returns the first filtered rows
func (h *Handler) GetRecords(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}

	view, err := h.dashboardSvc.GetTableView(spec)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"empty":   view.Matched == 0,
		"data":    view,
	})
}

// ExportCSV downloads the filtered rows as CSV
func (h *Handler) ExportCSV(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.dashboardSvc.ExportCSV(spec, &buf); err != nil {
		return h.toHTTPError(err)
	}

	c.Attachment(service.ExportFilename(spec, "csv"))
	c.Set(fiber.HeaderContentType, contentTypeCSV)
	return c.Send(buf.Bytes())
}

// ExportXLSX downloads the filtered rows as a workbook
func (h *Handler) ExportXLSX(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.dashboardSvc.ExportXLSX(spec, &buf); err != nil {
		return h.toHTTPError(err)
	}

	c.Attachment(service.ExportFilename(spec, "xlsx"))
	c.Set(fiber.HeaderContentType, contentTypeXLSX)
	return c.Send(buf.Bytes())
}

// GetCharts returns every chart series for the filtered rows
func (h *Handler) GetCharts(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}

	charts, err := h.dashboardSvc.GetCharts(spec)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    charts,
	})
}

// GetChartPNG renders one chart as an image
func (h *Handler) GetChartPNG(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.dashboardSvc.RenderChart(c.Params("name"), spec, &buf); err != nil {
		return h.toHTTPError(err)
	}

	c.Set(fiber.HeaderContentType, contentTypePNG)
	return c.Send(buf.Bytes())
}

// GetMapPoints returns the colored scatter map for the filtered rows
func (h *Handler) GetMapPoints(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}
	basis, err := service.ParseColorBasis(c.Query("color_by"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	maxPoints := c.QueryInt("max_points", domain.DefaultMaxPts)
	if maxPoints < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "max_points must be positive")
	}

	proj, err := h.dashboardSvc.GetMapPoints(spec, maxPoints, basis)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"empty":   len(proj.Points) == 0,
		"data":    proj,
		"count":   len(proj.Points),
	})
}

// GetMapRegions returns the choropleth aggregate for the filtered rows
func (h *Handler) GetMapRegions(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}
	metric, err := service.ParseRegionMetric(c.Query("metric"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	agg, err := h.dashboardSvc.GetRegions(spec, metric)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"empty":   len(agg.Regions) == 0,
		"data":    agg,
	})
}

// GetOverview returns state, summary, options and charts in one response
func (h *Handler) GetOverview(c *fiber.Ctx) error {
	spec, err := parseFilterSpec(c)
	if err != nil {
		return err
	}

	ov, err := h.dashboardSvc.GetOverview(c.Context(), spec)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"empty":   ov.Summary.TotalAccidents == 0,
		"data":    ov,
	})
}
