package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/internal/metrics"
)

// Overview bundles the panels shown when the dashboard opens
type Overview struct {
	State   AppState             `json:"state"`
	Summary domain.Summary       `json:"summary"`
	Options domain.FilterOptions `json:"options"`
	Charts  []domain.ChartSeries `json:"charts"`
}

// DashboardService computes every view from the current dataset. Views never
// modify the shared table; each builds its own output.
type DashboardService struct {
	dataset *DatasetService
	logger  *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(dataset *DatasetService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		dataset: dataset,
		logger:  logger,
	}
}

// Dataset returns the underlying dataset service
func (s *DashboardService) Dataset() *DatasetService {
	return s.dataset
}

// filtered returns the current table, the filtered table and records the view
func (s *DashboardService) filtered(view string, spec domain.FilterSpec) (*domain.Table, *domain.Table, error) {
	metrics.ViewRequestsTotal.WithLabelValues(view).Inc()

	table, err := s.dataset.Current()
	if err != nil {
		return nil, nil, err
	}
	out := Filter(table, spec)
	metrics.FilteredRows.Observe(float64(out.Len()))
	return table, out, nil
}

// GetSummary returns the statistics panel for the filtered rows
func (s *DashboardService) GetSummary(spec domain.FilterSpec) (domain.Summary, error) {
	_, t, err := s.filtered("summary", spec)
	if err != nil {
		return domain.Summary{}, err
	}
	return Summarize(t), nil
}

// GetFilterOptions lists filter values over the whole dataset
func (s *DashboardService) GetFilterOptions() (domain.FilterOptions, error) {
	metrics.ViewRequestsTotal.WithLabelValues("options").Inc()
	table, err := s.dataset.Current()
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return BuildFilterOptions(table), nil
}

// GetTableView returns the first rows of the filtered table
func (s *DashboardService) GetTableView(spec domain.FilterSpec) (domain.TableView, error) {
	all, t, err := s.filtered("table", spec)
	if err != nil {
		return domain.TableView{}, err
	}
	return BuildTableView(t, all.Len(), domain.TableViewLimit), nil
}

// ExportCSV writes the filtered rows as CSV
func (s *DashboardService) ExportCSV(spec domain.FilterSpec, w io.Writer) error {
	_, t, err := s.filtered("export_csv", spec)
	if err != nil {
		return err
	}
	return WriteCSV(t, w)
}

// ExportXLSX writes the filtered rows as a workbook
func (s *DashboardService) ExportXLSX(spec domain.FilterSpec, w io.Writer) error {
	_, t, err := s.filtered("export_xlsx", spec)
	if err != nil {
		return err
	}
	return WriteXLSX(t, w)
}

// GetCharts returns every chart series for the filtered rows
func (s *DashboardService) GetCharts(spec domain.FilterSpec) ([]domain.ChartSeries, error) {
	_, t, err := s.filtered("charts", spec)
	if err != nil {
		return nil, err
	}
	return BuildCharts(t), nil
}

// RenderChart draws one chart of the filtered rows as PNG
func (s *DashboardService) RenderChart(name string, spec domain.FilterSpec, w io.Writer) error {
	_, t, err := s.filtered("chart_png", spec)
	if err != nil {
		return err
	}
	series, err := BuildChart(t, name)
	if err != nil {
		return err
	}
	return RenderChartPNG(series, w)
}

// GetMapPoints returns the scatter map for the filtered rows
func (s *DashboardService) GetMapPoints(spec domain.FilterSpec, maxPoints int, basis domain.ColorBasis) (domain.GeoProjection, error) {
	_, t, err := s.filtered("map_points", spec)
	if err != nil {
		return domain.GeoProjection{}, err
	}
	return BuildGeoProjection(t, maxPoints, basis), nil
}

// GetRegions returns the choropleth aggregate for the filtered rows
func (s *DashboardService) GetRegions(spec domain.FilterSpec, metric domain.RegionMetric) (domain.RegionAggregation, error) {
	_, t, err := s.filtered("map_regions", spec)
	if err != nil {
		return domain.RegionAggregation{}, err
	}
	agg := AggregateByRegion(t, metric)
	if agg.Fallback {
		s.logger.Info("temperature unavailable, coloring regions by count")
	}
	return agg, nil
}

// GetOverview computes summary, options and charts concurrently. The table is
// only read, so the goroutines share it without locking.
func (s *DashboardService) GetOverview(ctx context.Context, spec domain.FilterSpec) (Overview, error) {
	all, t, err := s.filtered("overview", spec)
	if err != nil {
		return Overview{}, err
	}

	start := time.Now()
	ov := Overview{State: s.dataset.State()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ov.Summary = Summarize(t)
		return ctx.Err()
	})
	g.Go(func() error {
		ov.Options = BuildFilterOptions(all)
		return ctx.Err()
	})
	g.Go(func() error {
		ov.Charts = BuildCharts(t)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	s.logger.Debug("overview computed", zap.Int("rows", t.Len()), zap.Duration("took", time.Since(start)))
	return ov, nil
}
