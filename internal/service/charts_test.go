package service

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/smartcity/accidents/internal/domain"
)

func chartValues(s domain.ChartSeries) map[string]float64 {
	out := make(map[string]float64, len(s.Points))
	for _, p := range s.Points {
		out[p.Label] = p.Value
	}
	return out
}

func TestBuildCharts(t *testing.T) {
	charts := BuildCharts(sampleTable())
	if len(charts) != len(ChartNames) {
		t.Fatalf("got %d charts, want %d", len(charts), len(ChartNames))
	}
	for i, c := range charts {
		if c.Name != ChartNames[i] {
			t.Errorf("chart %d = %s, want %s", i, c.Name, ChartNames[i])
		}
	}
}

func TestWeekdayChartOrder(t *testing.T) {
	s, err := BuildChart(sampleTable(), ChartWeekday)
	if err != nil {
		t.Fatal(err)
	}

	wantLabels := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	wantValues := []float64{1, 0, 0, 1, 2, 2, 0}
	if len(s.Points) != 7 {
		t.Fatalf("got %d points", len(s.Points))
	}
	for i, p := range s.Points {
		if p.Label != wantLabels[i] || p.Value != wantValues[i] {
			t.Errorf("point %d = %+v, want %s=%v", i, p, wantLabels[i], wantValues[i])
		}
	}
}

func TestCountCharts(t *testing.T) {
	states, _ := BuildChart(sampleTable(), ChartTopStates)
	if states.Points[0].Label != "CA" || states.Points[0].Value != 3 {
		t.Errorf("top state = %+v", states.Points[0])
	}

	hourly, _ := BuildChart(sampleTable(), ChartHourly)
	labels := []string{"7", "8", "12", "16", "17", "22"}
	for i, p := range hourly.Points {
		if p.Label != labels[i] {
			t.Errorf("hour %d = %s, want %s", i, p.Label, labels[i])
		}
	}

	severity, _ := BuildChart(sampleTable(), ChartSeverity)
	if v := chartValues(severity); v["2"] != 2 || v["3"] != 2 || v["1"] != 1 || v["4"] != 1 {
		t.Errorf("severity = %v", v)
	}
}

func TestTemperatureHistogram(t *testing.T) {
	s, _ := BuildChart(sampleTable(), ChartTemperature)
	if len(s.Points) != 50 {
		t.Fatalf("got %d bins, want 50", len(s.Points))
	}
	if s.Points[0].Label != "40.0" {
		t.Errorf("first edge = %s", s.Points[0].Label)
	}
	total := 0.0
	for _, p := range s.Points {
		total += p.Value
	}
	if total != 6 {
		t.Errorf("histogram holds %v values, want 6", total)
	}
	if s.Points[49].Value != 1 {
		t.Errorf("max value should land in the last bin")
	}
}

func TestBuildChartUnknown(t *testing.T) {
	if _, err := BuildChart(sampleTable(), "pie"); !errors.Is(err, ErrUnknownChart) {
		t.Errorf("err = %v, want ErrUnknownChart", err)
	}
}

func TestRenderChartPNG(t *testing.T) {
	s, _ := BuildChart(sampleTable(), ChartSeverity)

	var buf bytes.Buffer
	if err := RenderChartPNG(s, &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}

	empty, _ := BuildChart(domain.NewTable(allColumns, nil), ChartSeverity)
	if err := RenderChartPNG(empty, &buf); !errors.Is(err, ErrEmptyChart) {
		t.Error("expected error for an empty series")
	}
}

func TestTemperatureHistogramSkipsNonFinite(t *testing.T) {
	table := sampleTable()
	inf := math.Inf(1)
	table.Accidents[0].Temperature = &inf
	nan := math.NaN()
	table.Accidents[1].Temperature = &nan

	s, err := BuildChart(table, ChartTemperature)
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for _, p := range s.Points {
		total += p.Value
	}
	if total != 4 {
		t.Errorf("histogram holds %v values, want 4", total)
	}

	if got := Summarize(table).AvgTemperature; got == nil || math.IsInf(*got, 0) || math.IsNaN(*got) {
		t.Errorf("avg temperature = %v", got)
	}
}
