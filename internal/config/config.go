package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Data source kinds
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceMock     = "mock"
)

// Performance modes map to a sample size; "full" loads every row
const (
	ModeFast     = "fast"
	ModeBalanced = "balanced"
	ModeFull     = "full"
)

// DefaultDatasetURL points at the pre-filtered US accidents export
const DefaultDatasetURL = "https://drive.usercontent.google.com/download?id=1_T0CVP34NUlWyyYBjgdzTr32dLv6fpQu&export=download&confirm=t"

type Config struct {
	Port            string        `yaml:"port"`
	Env             string        `yaml:"env"`
	DataSource      string        `yaml:"data_source"`
	DatasetURL      string        `yaml:"dataset_url"`
	DatasetPath     string        `yaml:"dataset_path"`
	DatabaseURL     string        `yaml:"database_url"`
	AccidentsTable  string        `yaml:"accidents_table"`
	PerformanceMode string        `yaml:"performance_mode"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	ExportPerMinute int           `yaml:"export_per_minute"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:            "8080",
		Env:             "development",
		DataSource:      SourceCSV,
		DatasetURL:      DefaultDatasetURL,
		DatasetPath:     "us_accidents.csv",
		AccidentsTable:  "accidents",
		PerformanceMode: ModeFast,
		FetchTimeout:    5 * time.Minute,
		ExportPerMinute: 30,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (.env included). Environment wins.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("GO_ENV", cfg.Env)
	cfg.DataSource = getEnv("DATA_SOURCE", cfg.DataSource)
	cfg.DatasetURL = getEnv("DATASET_URL", cfg.DatasetURL)
	cfg.DatasetPath = getEnv("DATASET_PATH", cfg.DatasetPath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.AccidentsTable = getEnv("ACCIDENTS_TABLE", cfg.AccidentsTable)
	cfg.PerformanceMode = getEnv("PERFORMANCE_MODE", cfg.PerformanceMode)

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}
	if v := os.Getenv("EXPORT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid EXPORT_PER_MINUTE %q: %w", v, err)
		}
		cfg.ExportPerMinute = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate rejects unknown enum values
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceCSV, SourcePostgres, SourceMock:
	default:
		return fmt.Errorf("config: unknown data source %q", c.DataSource)
	}
	if _, err := SampleSizeForMode(c.PerformanceMode); err != nil {
		return err
	}
	return nil
}

// IsProduction reports whether GO_ENV selects production behaviour
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SampleSizeForMode returns the sample size of a performance mode; nil means all rows
func SampleSizeForMode(mode string) (*int, error) {
	var n int
	switch mode {
	case ModeFast, "":
		n = 100000
	case ModeBalanced:
		n = 500000
	case ModeFull:
		return nil, nil
	default:
		return nil, fmt.Errorf("config: unknown performance mode %q", mode)
	}
	return &n, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
