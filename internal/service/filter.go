package service

import (
	"github.com/smartcity/accidents/internal/domain"
)

// Filter returns the rows matching every non-empty constraint of spec, in
// input order. Filters are AND-combined; values within a filter are OR-combined.
// The input table is never modified.
func Filter(table *domain.Table, spec domain.FilterSpec) *domain.Table {
	if table == nil {
		return nil
	}
	if spec.IsEmpty() {
		return table.Derive(append([]domain.Accident(nil), table.Accidents...))
	}

	severity := intSet(spec.Severity)
	years := intSet(spec.Years)
	states := stringSet(spec.States)
	weather := stringSet(spec.Weather)

	out := make([]domain.Accident, 0, len(table.Accidents))
	for _, a := range table.Accidents {
		if severity != nil && !matchInt(severity, a.Severity) {
			continue
		}
		if states != nil && !states[a.State] {
			continue
		}
		if years != nil && !matchInt(years, a.Year) {
			continue
		}
		if weather != nil && !weather[a.WeatherCondition] {
			continue
		}
		out = append(out, a)
	}
	return table.Derive(out)
}

// nil means no constraint
func intSet(values []int) map[int]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func stringSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// null never matches a constraint
func matchInt(set map[int]bool, v *int) bool {
	return v != nil && set[*v]
}
