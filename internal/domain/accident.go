package domain

import "time"

// Source CSV column names
const (
	ColID          = "ID"
	ColStartTime   = "Start_Time"
	ColStartLat    = "Start_Lat"
	ColStartLng    = "Start_Lng"
	ColSeverity    = "Severity"
	ColState       = "State"
	ColCity        = "City"
	ColWeather     = "Weather_Condition"
	ColTemperature = "Temperature(F)"
	ColVisibility  = "Visibility(mi)"
	ColDistance    = "Distance(mi)"
)

// RequiredColumns must be present in the source header
var RequiredColumns = []string{
	ColStartTime, ColStartLat, ColStartLng, ColSeverity, ColState, ColCity, ColWeather,
}

// DisplayColumns is the fixed column set of the table view and exports
var DisplayColumns = []string{
	ColStartTime, ColCity, ColState, ColSeverity, ColWeather, ColTemperature, ColVisibility, ColDistance,
}

// Accident is a single accident record. Nil pointers and empty strings mean
// the source value was missing or unparseable.
type Accident struct {
	ID               string     `json:"id,omitempty"`
	StartTime        *time.Time `json:"start_time"`
	StartLat         *float64   `json:"start_lat"`
	StartLng         *float64   `json:"start_lng"`
	Severity         *int       `json:"severity"`
	State            string     `json:"state"`
	City             string     `json:"city"`
	WeatherCondition string     `json:"weather_condition"`
	Temperature      *float64   `json:"temperature_f"`
	Visibility       *float64   `json:"visibility_mi"`
	Distance         *float64   `json:"distance_mi"`

	// Calendar fields derived from StartTime
	Hour      *int   `json:"hour"`
	DayOfWeek string `json:"day_of_week"`
	Month     *int   `json:"month"`
	Year      *int   `json:"year"`
}

// DeriveCalendar fills Hour, DayOfWeek, Month and Year from StartTime.
func (a *Accident) DeriveCalendar() {
	if a.StartTime == nil {
		a.Hour, a.Month, a.Year = nil, nil, nil
		a.DayOfWeek = ""
		return
	}
	t := *a.StartTime
	hour, month, year := t.Hour(), int(t.Month()), t.Year()
	a.Hour = &hour
	a.Month = &month
	a.Year = &year
	a.DayOfWeek = t.Weekday().String()
}

// Table is an ordered set of accidents plus the columns the source provided.
// Tables are shared read-only; views build new tables instead of mutating.
type Table struct {
	Columns   []string   `json:"columns"`
	Accidents []Accident `json:"accidents"`
}

// NewTable creates a table over the given columns and records
func NewTable(columns []string, accidents []Accident) *Table {
	return &Table{Columns: columns, Accidents: accidents}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Accidents)
}

// HasColumn reports whether the source header carried the column
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Derive returns a new table with the same columns and the given rows
func (t *Table) Derive(accidents []Accident) *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	return &Table{Columns: cols, Accidents: accidents}
}

// SeverityColors is the fixed severity-level palette for map points
var SeverityColors = map[int]RGBA{
	1: {0, 255, 0, 160},
	2: {255, 255, 0, 160},
	3: {255, 165, 0, 160},
	4: {255, 0, 0, 160},
}

// Map defaults, centered on the contiguous US
const (
	USCenterLat    = 37.0902
	USCenterLon    = -95.7129
	DefaultZoom    = 4
	DefaultMaxPts  = 15000
	SampleSeed     = 42
	TableViewLimit = 1000
)
