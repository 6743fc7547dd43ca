package service

import (
	"time"

	"github.com/smartcity/accidents/internal/domain"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func timePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &t
}

var allColumns = []string{
	domain.ColID, domain.ColSeverity, domain.ColStartTime, domain.ColStartLat, domain.ColStartLng,
	domain.ColDistance, domain.ColCity, domain.ColState, domain.ColTemperature, domain.ColVisibility,
	domain.ColWeather,
}

func accident(id, state, city string, severity int, when string, temp float64, weather string) domain.Accident {
	a := domain.Accident{
		ID:               id,
		StartTime:        timePtr(when),
		StartLat:         floatPtr(35),
		StartLng:         floatPtr(-100),
		Severity:         intPtr(severity),
		State:            state,
		City:             city,
		WeatherCondition: weather,
		Temperature:      floatPtr(temp),
		Visibility:       floatPtr(10),
		Distance:         floatPtr(0.5),
	}
	a.DeriveCalendar()
	return a
}

// sampleTable has 6 rows over 3 states, 2 years and 3 weather conditions
func sampleTable() *domain.Table {
	return domain.NewTable(allColumns, []domain.Accident{
		accident("1", "CA", "Los Angeles", 2, "2021-01-04 07:45:00", 58, "Clear"),
		accident("2", "CA", "San Diego", 4, "2021-06-05 17:30:00", 71, "Rain"),
		accident("3", "TX", "Houston", 1, "2022-02-18 08:05:00", 40, "Clear"),
		accident("4", "TX", "Austin", 3, "2022-07-22 22:40:00", 95, "Fog"),
		accident("5", "NY", "New York", 2, "2022-11-03 16:55:00", 47, "Clear"),
		accident("6", "CA", "Los Angeles", 3, "2021-12-25 12:00:00", 62, "Rain"),
	})
}

func ids(t *domain.Table) []string {
	out := make([]string, 0, t.Len())
	for _, a := range t.Accidents {
		out = append(out, a.ID)
	}
	return out
}
