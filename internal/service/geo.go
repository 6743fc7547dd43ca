package service

import (
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/pkg/utils"
)

// ParseColorBasis validates a color basis name
func ParseColorBasis(s string) (domain.ColorBasis, error) {
	switch b := domain.ColorBasis(s); b {
	case domain.ColorBySeverity, domain.ColorByTemperature, domain.ColorByVisibility:
		return b, nil
	case "":
		return domain.ColorBySeverity, nil
	default:
		return "", fmt.Errorf("unknown color basis %q", s)
	}
}

// BuildGeoProjection prepares at most maxPoints colored map points.
// Sampling uses the fixed seed so identical inputs give identical maps.
// Median backfill only touches the returned points, never the shared table.
func BuildGeoProjection(table *domain.Table, maxPoints int, basis domain.ColorBasis) domain.GeoProjection {
	proj := domain.GeoProjection{
		Basis:     basis,
		Points:    []domain.GeoPoint{},
		ViewState: domain.ViewState{Latitude: domain.USCenterLat, Longitude: domain.USCenterLon, Zoom: domain.DefaultZoom},
		Legend:    legendFor(basis),
	}
	if table.Len() == 0 || maxPoints <= 0 {
		return proj
	}

	// 1. sample
	idx := utils.SampleIndices(table.Len(), maxPoints, domain.SampleSeed)

	// 2. drop rows without a usable position or severity
	points := make([]domain.GeoPoint, 0, len(idx))
	for _, i := range idx {
		a := table.Accidents[i]
		if a.StartLat == nil || a.StartLng == nil || a.Severity == nil {
			continue
		}
		if !s2.LatLngFromDegrees(*a.StartLat, *a.StartLng).IsValid() {
			continue
		}
		points = append(points, domain.GeoPoint{
			Latitude:    *a.StartLat,
			Longitude:   *a.StartLng,
			Severity:    *a.Severity,
			City:        a.City,
			State:       a.State,
			Temperature: copyFloat(a.Temperature),
			Visibility:  copyFloat(a.Visibility),
		})
	}

	// 3. display-only median backfill over the subset
	if table.HasColumn(domain.ColTemperature) {
		backfillMedian(points, func(p *domain.GeoPoint) **float64 { return &p.Temperature })
	}
	if table.HasColumn(domain.ColVisibility) {
		backfillMedian(points, func(p *domain.GeoPoint) **float64 { return &p.Visibility })
	}

	// 4. colors, with bounds computed once per batch
	ColorPoints(points, basis)

	proj.Points = points
	return proj
}

// ColorPoints assigns a color to every point for the given basis
func ColorPoints(points []domain.GeoPoint, basis domain.ColorBasis) {
	switch basis {
	case domain.ColorByTemperature:
		bounds := BoundsOf(fieldValues(points, func(p *domain.GeoPoint) *float64 { return p.Temperature }))
		for i := range points {
			points[i].Color = TemperatureColor(points[i].Temperature, bounds)
		}
	case domain.ColorByVisibility:
		bounds := BoundsOf(fieldValues(points, func(p *domain.GeoPoint) *float64 { return p.Visibility }))
		for i := range points {
			points[i].Color = VisibilityColor(points[i].Visibility, bounds)
		}
	default:
		for i := range points {
			sev := points[i].Severity
			points[i].Color = SeverityColor(&sev)
		}
	}
}

func backfillMedian(points []domain.GeoPoint, field func(*domain.GeoPoint) **float64) {
	present := make([]float64, 0, len(points))
	for i := range points {
		if v := *field(&points[i]); v != nil {
			present = append(present, *v)
		}
	}
	median, ok := utils.Median(present)
	if !ok {
		return
	}
	for i := range points {
		if f := field(&points[i]); *f == nil {
			m := median
			*f = &m
		}
	}
}

func fieldValues(points []domain.GeoPoint, field func(*domain.GeoPoint) *float64) []*float64 {
	out := make([]*float64, len(points))
	for i := range points {
		out[i] = field(&points[i])
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func legendFor(basis domain.ColorBasis) []domain.LegendEntry {
	switch basis {
	case domain.ColorByTemperature:
		return []domain.LegendEntry{
			{Color: domain.RGBA{0, 100, 255, 160}, Label: "Cold"},
			{Color: domain.RGBA{127, 100, 127, 160}, Label: "Mild"},
			{Color: domain.RGBA{255, 100, 0, 160}, Label: "Hot"},
		}
	case domain.ColorByVisibility:
		return []domain.LegendEntry{
			{Color: domain.RGBA{255, 0, 0, 200}, Label: "Low visibility"},
			{Color: domain.RGBA{127, 255, 127, 200}, Label: "Medium"},
			{Color: domain.RGBA{0, 0, 255, 200}, Label: "High visibility"},
		}
	default:
		return []domain.LegendEntry{
			{Color: domain.SeverityColors[1], Label: "Severity 1 - short delays"},
			{Color: domain.SeverityColors[2], Label: "Severity 2 - moderate delays"},
			{Color: domain.SeverityColors[3], Label: "Severity 3 - significant delays"},
			{Color: domain.SeverityColors[4], Label: "Severity 4 - long delays"},
		}
	}
}
