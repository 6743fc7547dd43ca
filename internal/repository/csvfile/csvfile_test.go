package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartcity/accidents/internal/domain"
)

const header = "ID,Severity,Start_Time,Start_Lat,Start_Lng,Distance(mi),City,State,Temperature(F),Visibility(mi),Weather_Condition\n"

func TestParse(t *testing.T) {
	data := header +
		"A-1,2,2021-03-05 08:15:00,34.05,-118.24,0.5,Los Angeles,CA,61.0,10.0,Clear\n" +
		"A-2,4,not a date,29.76,-95.36,,Houston,TX,,2.0,Rain\n" +
		"A-3,3.0,2022-12-25 23:59:59.000000000,,,1.2,Austin,TX,45.5,,Fog\n"

	table, skipped, err := Parse(context.Background(), strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if table.Len() != 3 {
		t.Fatalf("rows = %d, want 3", table.Len())
	}
	if !table.HasColumn(domain.ColTemperature) || table.HasColumn("Street") {
		t.Error("column presence not tracked")
	}

	first := table.Accidents[0]
	if first.StartTime == nil || first.StartTime.Hour() != 8 {
		t.Errorf("start time = %v", first.StartTime)
	}
	if first.Severity == nil || *first.Severity != 2 {
		t.Errorf("severity = %v", first.Severity)
	}
	if first.State != "CA" || first.City != "Los Angeles" || first.WeatherCondition != "Clear" {
		t.Errorf("strings = %+v", first)
	}

	second := table.Accidents[1]
	if second.StartTime != nil {
		t.Error("unparseable timestamp should be null")
	}
	if second.Temperature != nil || second.Distance != nil {
		t.Error("blank numerics should be null")
	}

	third := table.Accidents[2]
	if third.Severity == nil || *third.Severity != 3 {
		t.Errorf("severity 3.0 should parse as 3, got %v", third.Severity)
	}
	if third.StartLat != nil || third.StartLng != nil {
		t.Error("blank coordinates should be null")
	}
	if third.StartTime == nil || third.StartTime.Year() != 2022 {
		t.Errorf("fractional timestamp = %v", third.StartTime)
	}
}

func TestParseHeaderOnly(t *testing.T) {
	table, _, err := Parse(context.Background(), strings.NewReader(header))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if table.Len() != 0 || table.Accidents == nil {
		t.Errorf("want empty non-nil table, got %d rows", table.Len())
	}
}

func TestParseShortRowsPadWithNulls(t *testing.T) {
	data := header + "A-9,1,2020-01-01 00:00:00,40.0,-74.0\n"
	table, _, err := Parse(context.Background(), strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a := table.Accidents[0]
	if a.State != "" || a.Temperature != nil || a.WeatherCondition != "" {
		t.Errorf("missing trailing fields should be null: %+v", a)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"missing required column", "ID,Severity,Start_Lat\n1,2,3\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Parse(context.Background(), strings.NewReader(tc.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRepositoryLoadAccidents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "us_accidents.csv")
	data := header + "A-1,2,2021-03-05 08:15:00,34.05,-118.24,0.5,Los Angeles,CA,61.0,10.0,Clear\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewRepository(path, nil)
	table, err := repo.LoadAccidents(context.Background())
	if err != nil {
		t.Fatalf("LoadAccidents: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("rows = %d", table.Len())
	}

	id, err := repo.Identity(context.Background())
	if err != nil || !strings.HasPrefix(id, "csv:"+path) {
		t.Errorf("Identity = %q, %v", id, err)
	}
	if err := repo.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}

func TestRepositoryLoadErrorIsTyped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("foo,bar\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewRepository(path, nil).LoadAccidents(context.Background())
	var loadErr *domain.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("want *domain.LoadError, got %v", err)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		null bool
	}{
		{"2016-02-08 05:46:00", false},
		{"2016-02-08T05:46:00Z", false},
		{"2016-02-08", false},
		{"", true},
		{"yesterday", true},
	}

	for _, tc := range tests {
		if got := ParseTime(tc.in); (got == nil) != tc.null {
			t.Errorf("ParseTime(%q) = %v", tc.in, got)
		}
	}
}

func TestParseNonFiniteNumbersAreNull(t *testing.T) {
	data := header +
		"A-1,2,2021-03-05 08:15:00,34.05,-118.24,inf,Los Angeles,CA,+Inf,NaN,Clear\n" +
		"A-2,Infinity,2021-03-06 08:15:00,-Infinity,-118.24,0.5,Los Angeles,CA,61,10,Clear\n"

	table, _, err := Parse(context.Background(), strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	first, second := table.Accidents[0], table.Accidents[1]
	if first.Temperature != nil || first.Visibility != nil || first.Distance != nil {
		t.Errorf("non-finite values should be null: %+v", first)
	}
	if second.Severity != nil || second.StartLat != nil {
		t.Errorf("non-finite severity/latitude should be null: %+v", second)
	}
}
