package service

import (
	"sort"
	"strconv"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/pkg/utils"
)

// TopWeatherCount is the number of weather conditions listed in a summary
const TopWeatherCount = 5

// Summarize computes the statistics panel. Null values are skipped; a field
// with nothing to aggregate is left nil.
func Summarize(table *domain.Table) domain.Summary {
	if table.Len() == 0 {
		return domain.Summary{}
	}

	var (
		summary  = domain.Summary{TotalAccidents: table.Len()}
		states   = make(map[string]struct{})
		cities   = make(map[string]struct{})
		severity = make(map[int]int)
		weather  = make(map[string]int)
		temps    []float64
	)

	for _, a := range table.Accidents {
		if a.StartTime != nil {
			t := *a.StartTime
			if summary.DateRange == nil {
				summary.DateRange = &domain.DateRange{From: t, To: t}
			} else {
				if t.Before(summary.DateRange.From) {
					summary.DateRange.From = t
				}
				if t.After(summary.DateRange.To) {
					summary.DateRange.To = t
				}
			}
		}
		if a.State != "" {
			states[a.State] = struct{}{}
		}
		if a.City != "" {
			cities[a.City] = struct{}{}
		}
		if a.Severity != nil {
			severity[*a.Severity]++
		}
		if a.WeatherCondition != "" {
			weather[a.WeatherCondition]++
		}
		if a.Temperature != nil && utils.IsFinite(*a.Temperature) {
			temps = append(temps, *a.Temperature)
		}
	}

	if table.HasColumn(domain.ColState) {
		n := len(states)
		summary.StatesCount = &n
	}
	if table.HasColumn(domain.ColCity) {
		n := len(cities)
		summary.CitiesCount = &n
	}

	if len(severity) > 0 {
		counts := make(map[string]int, len(severity))
		for level, n := range severity {
			counts[strconv.Itoa(level)] = n
		}
		summary.SeverityDistribution = rankCounts(counts, 0)
	}
	if len(weather) > 0 {
		summary.MostCommonWeather = rankCounts(weather, TopWeatherCount)
	}

	if mean, ok := utils.Mean(temps); ok {
		v := utils.RoundTo(mean, 2)
		summary.AvgTemperature = &v
	}

	return summary
}

// rankCounts orders a frequency map by count descending, ties by value,
// keeping at most limit entries (0 = all)
func rankCounts(counts map[string]int, limit int) []domain.ValueCount {
	out := make([]domain.ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, domain.ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
