package service

import (
	"fmt"
	"sort"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/pkg/utils"
)

// ParseRegionMetric validates a choropleth metric name
func ParseRegionMetric(s string) (domain.RegionMetric, error) {
	switch m := domain.RegionMetric(s); m {
	case domain.MetricCount, domain.MetricSeverity, domain.MetricTemperature:
		return m, nil
	case "":
		return domain.MetricCount, nil
	default:
		return "", fmt.Errorf("unknown region metric %q", s)
	}
}

type regionAcc struct {
	count              int
	severity, lat, lng []float64
	temperature        []float64
}

// AggregateByRegion groups rows by state. Only states present in the table
// produce a row; rows without a state are left out. When temperature is requested but not available the result
// falls back to count and sets Fallback.
func AggregateByRegion(table *domain.Table, metric domain.RegionMetric) domain.RegionAggregation {
	result := domain.RegionAggregation{
		Requested: metric,
		Metric:    metric,
		Regions:   []domain.RegionAggregate{},
	}

	groups := make(map[string]*regionAcc)
	hasTemp := false
	if table != nil {
		for _, a := range table.Accidents {
			if a.State == "" {
				continue
			}
			acc, ok := groups[a.State]
			if !ok {
				acc = &regionAcc{}
				groups[a.State] = acc
			}
			acc.count++
			if a.Severity != nil {
				acc.severity = append(acc.severity, float64(*a.Severity))
			}
			if a.StartLat != nil {
				acc.lat = append(acc.lat, *a.StartLat)
			}
			if a.StartLng != nil {
				acc.lng = append(acc.lng, *a.StartLng)
			}
			if a.Temperature != nil && utils.IsFinite(*a.Temperature) {
				acc.temperature = append(acc.temperature, *a.Temperature)
				hasTemp = true
			}
		}
	}

	if metric == domain.MetricTemperature && (!table.HasColumn(domain.ColTemperature) || !hasTemp) {
		result.Metric = domain.MetricCount
		result.Fallback = true
	}

	states := make([]string, 0, len(groups))
	for s := range groups {
		states = append(states, s)
	}
	sort.Strings(states)

	withTemp := table.HasColumn(domain.ColTemperature)
	for _, s := range states {
		acc := groups[s]
		row := domain.RegionAggregate{
			State:         s,
			Count:         acc.count,
			MeanSeverity:  roundedMean(acc.severity),
			MeanLatitude:  roundedMean(acc.lat),
			MeanLongitude: roundedMean(acc.lng),
		}
		if withTemp {
			row.MeanTemperature = roundedMean(acc.temperature)
		}
		row.Value = metricValue(row, result.Metric)
		result.Regions = append(result.Regions, row)
	}
	return result
}

func metricValue(row domain.RegionAggregate, metric domain.RegionMetric) float64 {
	switch metric {
	case domain.MetricSeverity:
		if row.MeanSeverity != nil {
			return *row.MeanSeverity
		}
	case domain.MetricTemperature:
		if row.MeanTemperature != nil {
			return *row.MeanTemperature
		}
	default:
		return float64(row.Count)
	}
	return 0
}

func roundedMean(values []float64) *float64 {
	mean, ok := utils.Mean(values)
	if !ok {
		return nil
	}
	v := utils.RoundTo(mean, 2)
	return &v
}
