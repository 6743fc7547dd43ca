package domain

import "time"

// FilterSpec selects rows by accepted values. An empty slice means no constraint.
type FilterSpec struct {
	Severity []int    `json:"severity,omitempty"`
	States   []string `json:"states,omitempty"`
	Years    []int    `json:"years,omitempty"`
	Weather  []string `json:"weather,omitempty"`
}

// IsEmpty returns true if no constraint is set
func (f FilterSpec) IsEmpty() bool {
	return len(f.Severity) == 0 && len(f.States) == 0 && len(f.Years) == 0 && len(f.Weather) == 0
}

// ValueCount is one entry of a frequency distribution
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DateRange spans the earliest and latest accident timestamps
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Summary holds the statistics panel. Nil fields are not available.
type Summary struct {
	TotalAccidents       int          `json:"total_accidents"`
	DateRange            *DateRange   `json:"date_range"`
	StatesCount          *int         `json:"states_count"`
	CitiesCount          *int         `json:"cities_count"`
	SeverityDistribution []ValueCount `json:"severity_distribution"`
	MostCommonWeather    []ValueCount `json:"most_common_weather"`
	AvgTemperature       *float64     `json:"avg_temperature"`
}

// RGBA is a display color with 0-255 channels
type RGBA [4]uint8

// ColorBasis selects the field driving map point colors
type ColorBasis string

const (
	ColorBySeverity    ColorBasis = "severity"
	ColorByTemperature ColorBasis = "temperature"
	ColorByVisibility  ColorBasis = "visibility"
)

// GeoPoint is a display-ready map point
type GeoPoint struct {
	Latitude    float64  `json:"lat"`
	Longitude   float64  `json:"lon"`
	Severity    int      `json:"severity"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Temperature *float64 `json:"temperature_f"`
	Visibility  *float64 `json:"visibility_mi"`
	Color       RGBA     `json:"color"`
}

// ViewState is the initial camera of a map renderer
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

// LegendEntry describes one color of a legend
type LegendEntry struct {
	Color RGBA   `json:"color"`
	Label string `json:"label"`
}

// GeoProjection is the scatter map payload
type GeoProjection struct {
	Basis     ColorBasis    `json:"color_by"`
	Points    []GeoPoint    `json:"points"`
	ViewState ViewState     `json:"view_state"`
	Legend    []LegendEntry `json:"legend"`
}

// RegionMetric selects the value driving the choropleth color scale
type RegionMetric string

const (
	MetricCount       RegionMetric = "count"
	MetricSeverity    RegionMetric = "severity"
	MetricTemperature RegionMetric = "temperature"
)

// RegionAggregate holds per-state statistics
type RegionAggregate struct {
	State           string   `json:"state"`
	Count           int      `json:"count"`
	MeanSeverity    *float64 `json:"mean_severity"`
	MeanLatitude    *float64 `json:"mean_lat"`
	MeanLongitude   *float64 `json:"mean_lng"`
	MeanTemperature *float64 `json:"mean_temperature_f"`
	Value           float64  `json:"value"`
}

// RegionAggregation is the choropleth payload
type RegionAggregation struct {
	Requested RegionMetric      `json:"requested_metric"`
	Metric    RegionMetric      `json:"metric"`
	Fallback  bool              `json:"fallback"`
	Regions   []RegionAggregate `json:"regions"`
}

// FilterOptions lists the values offered by each filter control
type FilterOptions struct {
	States     []string `json:"states"`
	Severities []int    `json:"severities"`
	Years      []int    `json:"years"`
	Weather    []string `json:"weather"`
}

// TableView is the record table payload
type TableView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Shown   int        `json:"shown"`
	Matched int        `json:"matched"`
	Total   int        `json:"total"`
	Info    string     `json:"info"`
}

// ChartPoint is a single labelled value of a chart series
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is a named, ordered data series
type ChartSeries struct {
	Name   string       `json:"name"`
	Title  string       `json:"title"`
	XLabel string       `json:"x_label"`
	YLabel string       `json:"y_label"`
	Points []ChartPoint `json:"points"`
}
