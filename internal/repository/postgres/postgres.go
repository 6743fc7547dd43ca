package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartcity/accidents/internal/domain"
)

// Schema is the expected layout of the accidents table
const Schema = `
CREATE TABLE IF NOT EXISTS accidents (
	id                TEXT PRIMARY KEY,
	severity          INTEGER,
	start_time        TIMESTAMP,
	start_lat         DOUBLE PRECISION,
	start_lng         DOUBLE PRECISION,
	distance_mi       DOUBLE PRECISION,
	city              TEXT,
	state             TEXT,
	temperature_f     DOUBLE PRECISION,
	visibility_mi     DOUBLE PRECISION,
	weather_condition TEXT
)`

// columns provided by a table following Schema
var tableColumns = []string{
	domain.ColID, domain.ColSeverity, domain.ColStartTime, domain.ColStartLat, domain.ColStartLng,
	domain.ColDistance, domain.ColCity, domain.ColState, domain.ColTemperature, domain.ColVisibility,
	domain.ColWeather,
}

// PostgresRepository implements domain.AccidentSource
type PostgresRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresRepository creates a new PostgreSQL repository reading the named table
func NewPostgresRepository(pool *pgxpool.Pool, table string) *PostgresRepository {
	if table == "" {
		table = "accidents"
	}
	return &PostgresRepository{pool: pool, table: table}
}

func (r *PostgresRepository) tableName() string {
	return pgx.Identifier{r.table}.Sanitize()
}

// Identity keys the table content by row count and latest timestamp
func (r *PostgresRepository) Identity(ctx context.Context) (string, error) {
	query := fmt.Sprintf(`SELECT count(*), max(start_time) FROM %s`, r.tableName())

	var (
		count  int64
		latest *time.Time
	)
	if err := r.pool.QueryRow(ctx, query).Scan(&count, &latest); err != nil {
		return "", fmt.Errorf("postgres: failed to read table identity: %w", err)
	}

	cfg := r.pool.Config().ConnConfig
	stamp := int64(0)
	if latest != nil {
		stamp = latest.UnixNano()
	}
	return fmt.Sprintf("postgres:%s/%s/%s:%d:%d", cfg.Host, cfg.Database, r.table, count, stamp), nil
}

// LoadAccidents retrieves every accident row in insertion key order
func (r *PostgresRepository) LoadAccidents(ctx context.Context) (*domain.Table, error) {
	query := fmt.Sprintf(`
		SELECT id, severity, start_time, start_lat, start_lng, distance_mi,
			   coalesce(city, ''), coalesce(state, ''),
			   temperature_f, visibility_mi, coalesce(weather_condition, '')
		FROM %s
		ORDER BY id
	`, r.tableName())

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.LoadError{Source: r.table, Err: fmt.Errorf("postgres: failed to query accidents: %w", err)}
	}
	defer rows.Close()

	accidents := []domain.Accident{}
	for rows.Next() {
		var a domain.Accident
		err := rows.Scan(
			&a.ID, &a.Severity, &a.StartTime, &a.StartLat, &a.StartLng, &a.Distance,
			&a.City, &a.State, &a.Temperature, &a.Visibility, &a.WeatherCondition,
		)
		if err != nil {
			return nil, &domain.LoadError{Source: r.table, Err: fmt.Errorf("postgres: failed to scan accident row: %w", err)}
		}
		accidents = append(accidents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.LoadError{Source: r.table, Err: fmt.Errorf("postgres: failed to iterate accidents: %w", err)}
	}

	cols := make([]string, len(tableColumns))
	copy(cols, tableColumns)
	return domain.NewTable(cols, accidents), nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
