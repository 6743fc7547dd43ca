package service

import (
	"math"
	"reflect"
	"testing"

	"github.com/smartcity/accidents/internal/domain"
)

func TestBuildGeoProjectionSeverityColors(t *testing.T) {
	proj := BuildGeoProjection(sampleTable(), 100, domain.ColorBySeverity)

	if len(proj.Points) != 6 {
		t.Fatalf("got %d points, want 6", len(proj.Points))
	}
	want := map[int]domain.RGBA{
		1: {0, 255, 0, 160},
		2: {255, 255, 0, 160},
		3: {255, 165, 0, 160},
		4: {255, 0, 0, 160},
	}
	for _, p := range proj.Points {
		if p.Color != want[p.Severity] {
			t.Errorf("severity %d colored %v, want %v", p.Severity, p.Color, want[p.Severity])
		}
	}
	if proj.ViewState != (domain.ViewState{Latitude: 37.0902, Longitude: -95.7129, Zoom: 4}) {
		t.Errorf("view state = %+v", proj.ViewState)
	}
	if len(proj.Legend) != 4 {
		t.Errorf("legend has %d entries", len(proj.Legend))
	}
}

func TestSeverityColorOutOfRange(t *testing.T) {
	for _, sev := range []*int{intPtr(0), intPtr(5), nil} {
		if got := SeverityColor(sev); got != (domain.RGBA{128, 128, 128, 160}) {
			t.Errorf("SeverityColor(%v) = %v", sev, got)
		}
	}
}

func TestTemperatureColor(t *testing.T) {
	b := Bounds{Min: 40, Max: 90, Valid: true}
	tests := []struct {
		name  string
		value *float64
		want  domain.RGBA
	}{
		{"coldest", floatPtr(40), domain.RGBA{0, 100, 255, 160}},
		{"hottest", floatPtr(90), domain.RGBA{255, 100, 0, 160}},
		{"middle", floatPtr(65), domain.RGBA{127, 100, 127, 160}},
		{"missing", nil, domain.RGBA{128, 100, 128, 160}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TemperatureColor(tc.value, b); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTemperatureConstantFallsBack(t *testing.T) {
	table := sampleTable()
	for i := range table.Accidents {
		table.Accidents[i].Temperature = floatPtr(70)
	}

	proj := BuildGeoProjection(table, 100, domain.ColorByTemperature)
	for _, p := range proj.Points {
		if p.Color != (domain.RGBA{100, 100, 255, 160}) {
			t.Fatalf("got %v, want fallback", p.Color)
		}
	}
}

func TestVisibilityColor(t *testing.T) {
	b := Bounds{Min: 0, Max: 10, Valid: true}
	tests := []struct {
		name  string
		value *float64
		want  domain.RGBA
	}{
		{"zero", floatPtr(0), domain.RGBA{255, 0, 0, 200}},
		{"half", floatPtr(5), domain.RGBA{127, 255, 127, 200}},
		{"max", floatPtr(10), domain.RGBA{0, 0, 255, 200}},
		{"missing", nil, domain.RGBA{128, 128, 128, 200}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := VisibilityColor(tc.value, b); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	if got := VisibilityColor(floatPtr(0), Bounds{Valid: true}); got != (domain.RGBA{100, 255, 100, 160}) {
		t.Errorf("zero max should fall back, got %v", got)
	}
}

func TestBuildGeoProjectionDropsUnusableRows(t *testing.T) {
	table := sampleTable()
	table.Accidents[0].StartLat = nil
	table.Accidents[1].Severity = nil
	table.Accidents[2].StartLat = floatPtr(120)

	proj := BuildGeoProjection(table, 100, domain.ColorBySeverity)
	if len(proj.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(proj.Points))
	}
	for _, p := range proj.Points {
		if p.City == "Houston" {
			t.Error("invalid latitude kept")
		}
	}
}

func TestBuildGeoProjectionSampling(t *testing.T) {
	table := sampleTable()
	a := BuildGeoProjection(table, 3, domain.ColorBySeverity)
	b := BuildGeoProjection(table, 3, domain.ColorBySeverity)

	if len(a.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(a.Points))
	}
	if !reflect.DeepEqual(a.Points, b.Points) {
		t.Error("sampling is not reproducible")
	}

	if got := BuildGeoProjection(table, 0, domain.ColorBySeverity); len(got.Points) != 0 {
		t.Errorf("maxPoints 0 gave %d points", len(got.Points))
	}
}

func TestBuildGeoProjectionBackfillIsLocal(t *testing.T) {
	table := sampleTable()
	table.Accidents[3].Temperature = nil

	proj := BuildGeoProjection(table, 100, domain.ColorByTemperature)

	if table.Accidents[3].Temperature != nil {
		t.Fatal("shared table was modified")
	}
	for _, p := range proj.Points {
		if p.City != "Austin" {
			continue
		}
		// median of 58, 71, 40, 47, 62
		if p.Temperature == nil || *p.Temperature != 58 {
			t.Errorf("backfilled temperature = %v, want 58", p.Temperature)
		}
	}
}

func TestBuildGeoProjectionEmpty(t *testing.T) {
	empty := Filter(sampleTable(), domain.FilterSpec{States: []string{"ZZ"}})
	proj := BuildGeoProjection(empty, 100, domain.ColorByVisibility)
	if proj.Points == nil || len(proj.Points) != 0 {
		t.Errorf("expected empty non-nil points, got %v", proj.Points)
	}
	if proj.Basis != domain.ColorByVisibility {
		t.Errorf("basis = %s", proj.Basis)
	}
}

func TestParseColorBasis(t *testing.T) {
	if b, err := ParseColorBasis(""); err != nil || b != domain.ColorBySeverity {
		t.Errorf("default basis = %q, %v", b, err)
	}
	if b, err := ParseColorBasis("visibility"); err != nil || b != domain.ColorByVisibility {
		t.Errorf("visibility = %q, %v", b, err)
	}
	if _, err := ParseColorBasis("humidity"); err == nil {
		t.Error("expected error for unknown basis")
	}
}

func TestColorsIgnoreNonFiniteValues(t *testing.T) {
	inf := math.Inf(1)
	bounds := BoundsOf([]*float64{floatPtr(40), &inf, floatPtr(90)})
	if !bounds.Valid || bounds.Min != 40 || bounds.Max != 90 {
		t.Fatalf("bounds = %+v", bounds)
	}

	if got := TemperatureColor(&inf, bounds); got != (domain.RGBA{128, 100, 128, 160}) {
		t.Errorf("temperature color = %v", got)
	}
	nan := math.NaN()
	if got := VisibilityColor(&nan, Bounds{Max: 10, Valid: true}); got != (domain.RGBA{128, 128, 128, 200}) {
		t.Errorf("visibility color = %v", got)
	}
}
