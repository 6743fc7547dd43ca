package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/smartcity/accidents/internal/domain"
)

const (
	optionsTopWeather = 10
	exportSheet       = "Accidents"
	timestampLayout   = "2006-01-02 15:04:05"
)

var printer = message.NewPrinter(language.English)

// BuildFilterOptions lists the values offered by the filter controls:
// states and severities ascending, years descending, the ten most frequent
// weather conditions.
func BuildFilterOptions(table *domain.Table) domain.FilterOptions {
	opts := domain.FilterOptions{
		States:     []string{},
		Severities: []int{},
		Years:      []int{},
		Weather:    []string{},
	}
	if table.Len() == 0 {
		return opts
	}

	states := make(map[string]bool)
	severities := make(map[int]bool)
	years := make(map[int]bool)
	weather := make(map[string]int)
	for _, a := range table.Accidents {
		if a.State != "" {
			states[a.State] = true
		}
		if a.Severity != nil {
			severities[*a.Severity] = true
		}
		if a.Year != nil {
			years[*a.Year] = true
		}
		if a.WeatherCondition != "" {
			weather[a.WeatherCondition]++
		}
	}

	for s := range states {
		opts.States = append(opts.States, s)
	}
	sort.Strings(opts.States)
	for s := range severities {
		opts.Severities = append(opts.Severities, s)
	}
	sort.Ints(opts.Severities)
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(opts.Years)))
	for _, w := range rankCounts(weather, optionsTopWeather) {
		opts.Weather = append(opts.Weather, w.Value)
	}
	return opts
}

// BuildTableView renders the first limit rows of filtered with the display
// columns. total is the row count before filtering.
func BuildTableView(filtered *domain.Table, total, limit int) domain.TableView {
	matched := filtered.Len()
	shown := matched
	if limit > 0 && shown > limit {
		shown = limit
	}

	rows := make([][]string, 0, shown)
	for i := 0; i < shown; i++ {
		rows = append(rows, DisplayRow(filtered.Accidents[i]))
	}

	pct := 0.0
	if total > 0 {
		pct = float64(matched) / float64(total) * 100
	}

	return domain.TableView{
		Columns: domain.DisplayColumns,
		Rows:    rows,
		Shown:   shown,
		Matched: matched,
		Total:   total,
		Info:    printer.Sprintf("Showing %d records of %d total (%.1f%%)", matched, total, pct),
	}
}

// DisplayRow formats an accident with the display columns; nulls are empty
func DisplayRow(a domain.Accident) []string {
	ts := ""
	if a.StartTime != nil {
		ts = a.StartTime.Format(timestampLayout)
	}
	sev := ""
	if a.Severity != nil {
		sev = strconv.Itoa(*a.Severity)
	}
	return []string{
		ts, a.City, a.State, sev, a.WeatherCondition,
		formatFloat(a.Temperature), formatFloat(a.Visibility), formatFloat(a.Distance),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ExportFilename suggests a download name for a filtered export
func ExportFilename(spec domain.FilterSpec, ext string) string {
	state := "all"
	if len(spec.States) > 0 {
		state = strings.Join(spec.States, "-")
	}
	year := "all"
	if len(spec.Years) > 0 {
		parts := make([]string, len(spec.Years))
		for i, y := range spec.Years {
			parts[i] = strconv.Itoa(y)
		}
		year = strings.Join(parts, "-")
	}
	return fmt.Sprintf("accidents_filtered_%s_%s.%s", state, year, ext)
}

// WriteCSV exports the whole table with the display columns
func WriteCSV(table *domain.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.DisplayColumns); err != nil {
		return fmt.Errorf("export: failed to write header: %w", err)
	}
	for _, a := range table.Accidents {
		if err := cw.Write(DisplayRow(a)); err != nil {
			return fmt.Errorf("export: failed to write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: failed to flush csv: %w", err)
	}
	return nil
}

// WriteXLSX exports the whole table with the display columns as a workbook.
// Numeric columns are written as numbers.
func WriteXLSX(table *domain.Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("export: failed to name sheet: %w", err)
	}

	for i, col := range domain.DisplayColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, col); err != nil {
			return fmt.Errorf("export: failed to write header: %w", err)
		}
	}

	for r, a := range table.Accidents {
		values := []interface{}{
			"", a.City, a.State, nil, a.WeatherCondition,
			floatOrNil(a.Temperature), floatOrNil(a.Visibility), floatOrNil(a.Distance),
		}
		if a.StartTime != nil {
			values[0] = a.StartTime.Format(timestampLayout)
		}
		if a.Severity != nil {
			values[3] = *a.Severity
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("export: failed to write row %d: %w", r+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: failed to write workbook: %w", err)
	}
	return nil
}

func floatOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
