package service

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/pkg/utils"
)

// Chart names
const (
	ChartSeverity    = "severity"
	ChartTopStates   = "top_states"
	ChartHourly      = "hourly"
	ChartWeekday     = "weekday"
	ChartTemperature = "temperature"
	ChartTopWeather  = "top_weather"
)

// ChartNames lists every chart in display order
var ChartNames = []string{ChartSeverity, ChartTopStates, ChartHourly, ChartWeekday, ChartTemperature, ChartTopWeather}

const (
	chartTopN           = 10
	temperatureBins     = 50
	chartAccidentsLabel = "Accidents"
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

var (
	// ErrUnknownChart is returned for chart names not in ChartNames
	ErrUnknownChart = errors.New("unknown chart")

	// ErrEmptyChart is returned when a series has nothing to draw
	ErrEmptyChart = errors.New("chart has no data")
)

// BuildCharts computes every chart series of the statistics panel
func BuildCharts(table *domain.Table) []domain.ChartSeries {
	out := make([]domain.ChartSeries, 0, len(ChartNames))
	for _, name := range ChartNames {
		s, _ := BuildChart(table, name)
		out = append(out, s)
	}
	return out
}

// BuildChart computes one named chart series
func BuildChart(table *domain.Table, name string) (domain.ChartSeries, error) {
	var accidents []domain.Accident
	if table != nil {
		accidents = table.Accidents
	}

	switch name {
	case ChartSeverity:
		counts := make(map[int]int)
		for _, a := range accidents {
			if a.Severity != nil {
				counts[*a.Severity]++
			}
		}
		return domain.ChartSeries{
			Name: name, Title: "Accidents by severity", XLabel: "Severity level", YLabel: chartAccidentsLabel,
			Points: sortedIntCounts(counts),
		}, nil

	case ChartTopStates:
		counts := make(map[string]int)
		for _, a := range accidents {
			if a.State != "" {
				counts[a.State]++
			}
		}
		return domain.ChartSeries{
			Name: name, Title: "Top 10 states by accidents", XLabel: "State", YLabel: chartAccidentsLabel,
			Points: toPoints(rankCounts(counts, chartTopN)),
		}, nil

	case ChartHourly:
		counts := make(map[int]int)
		for _, a := range accidents {
			if a.Hour != nil {
				counts[*a.Hour]++
			}
		}
		return domain.ChartSeries{
			Name: name, Title: "Accidents by hour of day", XLabel: "Hour", YLabel: chartAccidentsLabel,
			Points: sortedIntCounts(counts),
		}, nil

	case ChartWeekday:
		counts := make(map[string]int)
		for _, a := range accidents {
			if a.DayOfWeek != "" {
				counts[a.DayOfWeek]++
			}
		}
		points := make([]domain.ChartPoint, 0, len(weekdayOrder))
		for _, d := range weekdayOrder {
			points = append(points, domain.ChartPoint{Label: d.String(), Value: float64(counts[d.String()])})
		}
		return domain.ChartSeries{
			Name: name, Title: "Accidents by day of week", XLabel: "Day", YLabel: chartAccidentsLabel,
			Points: points,
		}, nil

	case ChartTemperature:
		var temps []float64
		for _, a := range accidents {
			if a.Temperature != nil && utils.IsFinite(*a.Temperature) {
				temps = append(temps, *a.Temperature)
			}
		}
		return domain.ChartSeries{
			Name: name, Title: "Temperature distribution", XLabel: "Temperature (F)", YLabel: chartAccidentsLabel,
			Points: histogram(temps, temperatureBins),
		}, nil

	case ChartTopWeather:
		counts := make(map[string]int)
		for _, a := range accidents {
			if a.WeatherCondition != "" {
				counts[a.WeatherCondition]++
			}
		}
		return domain.ChartSeries{
			Name: name, Title: "Top 10 weather conditions", XLabel: "Weather condition", YLabel: chartAccidentsLabel,
			Points: toPoints(rankCounts(counts, chartTopN)),
		}, nil
	}

	return domain.ChartSeries{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// RenderChartPNG draws a series as a bar chart
func RenderChartPNG(series domain.ChartSeries, w io.Writer) error {
	if len(series.Points) == 0 {
		return fmt.Errorf("charts: %s: %w", series.Name, ErrEmptyChart)
	}

	bars := make([]chart.Value, 0, len(series.Points))
	nonZero := false
	for _, p := range series.Points {
		bars = append(bars, chart.Value{Label: p.Label, Value: p.Value})
		if p.Value != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		return fmt.Errorf("charts: %s has only zero values: %w", series.Name, ErrEmptyChart)
	}

	barWidth := 40
	if len(bars) > 12 {
		barWidth = 12
	}

	graph := chart.BarChart{
		Title:      series.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Height:     480,
		Width:      960,
		BarWidth:   barWidth,
		Bars:       bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("charts: failed to render %s: %w", series.Name, err)
	}
	return nil
}

func sortedIntCounts(counts map[int]int) []domain.ChartPoint {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	points := make([]domain.ChartPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, domain.ChartPoint{Label: strconv.Itoa(k), Value: float64(counts[k])})
	}
	return points
}

func toPoints(counts []domain.ValueCount) []domain.ChartPoint {
	points := make([]domain.ChartPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, domain.ChartPoint{Label: c.Value, Value: float64(c.Count)})
	}
	return points
}

// histogram splits values into equal-width bins labelled by their lower edge
func histogram(values []float64, bins int) []domain.ChartPoint {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if utils.IsFinite(v) {
			finite = append(finite, v)
		}
	}
	values = finite

	lo, hi, ok := utils.MinMax(values)
	if !ok {
		return []domain.ChartPoint{}
	}
	if hi == lo {
		return []domain.ChartPoint{{Label: formatEdge(lo), Value: float64(len(values))}}
	}

	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		} else if i < 0 {
			i = 0
		}
		counts[i]++
	}

	points := make([]domain.ChartPoint, bins)
	for i := range counts {
		points[i] = domain.ChartPoint{Label: formatEdge(lo + float64(i)*width), Value: float64(counts[i])}
	}
	return points
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(utils.RoundTo(v, 1), 'f', 1, 64)
}
