package postgres

import (
	"context"
	"time"

	"github.com/smartcity/accidents/internal/domain"
)

// MockRepository implements domain.AccidentSource with a small built-in
// dataset for demo mode and tests
type MockRepository struct{}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// Identity never changes in mock mode
func (r *MockRepository) Identity(ctx context.Context) (string, error) {
	return "mock:demo", nil
}

// LoadAccidents returns the demo accidents
func (r *MockRepository) LoadAccidents(ctx context.Context) (*domain.Table, error) {
	type row struct {
		id       string
		when     string
		lat, lng float64
		severity int
		city     string
		state    string
		weather  string
		temp     float64
		vis      float64
		dist     float64
	}
	rows := []row{
		{"M-1", "2021-01-04 07:45:00", 34.0522, -118.2437, 2, "Los Angeles", "CA", "Clear", 58, 10, 0.2},
		{"M-2", "2021-01-04 17:30:00", 37.7749, -122.4194, 3, "San Francisco", "CA", "Fog", 51, 1.5, 0.8},
		{"M-3", "2021-06-12 12:10:00", 29.7604, -95.3698, 2, "Houston", "TX", "Rain", 84, 6, 1.1},
		{"M-4", "2022-02-18 08:05:00", 32.7767, -96.797, 4, "Dallas", "TX", "Snow", 29, 0.5, 3.4},
		{"M-5", "2022-07-22 22:40:00", 25.7617, -80.1918, 1, "Miami", "FL", "Clear", 88, 10, 0},
		{"M-6", "2022-11-03 16:55:00", 40.7128, -74.006, 2, "New York", "NY", "Cloudy", 47, 9, 0.4},
		{"M-7", "2023-03-09 06:20:00", 47.6062, -122.3321, 3, "Seattle", "WA", "Rain", 44, 4, 2.2},
		{"M-8", "2023-08-15 18:15:00", 33.4484, -112.074, 2, "Phoenix", "AZ", "Clear", 104, 10, 0.1},
	}

	accidents := make([]domain.Accident, 0, len(rows))
	for _, m := range rows {
		start, _ := time.Parse("2006-01-02 15:04:05", m.when)
		lat, lng, temp, vis, dist := m.lat, m.lng, m.temp, m.vis, m.dist
		severity := m.severity
		accidents = append(accidents, domain.Accident{
			ID:               m.id,
			StartTime:        &start,
			StartLat:         &lat,
			StartLng:         &lng,
			Severity:         &severity,
			State:            m.state,
			City:             m.city,
			WeatherCondition: m.weather,
			Temperature:      &temp,
			Visibility:       &vis,
			Distance:         &dist,
		})
	}

	cols := make([]string, len(tableColumns))
	copy(cols, tableColumns)
	return domain.NewTable(cols, accidents), nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
