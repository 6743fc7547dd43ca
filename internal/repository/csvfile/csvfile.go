package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/domain"
)

// timeLayouts are tried in order when parsing Start_Time
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Repository reads accidents from a delimited text file with a header row
type Repository struct {
	path   string
	logger *zap.Logger
}

// NewRepository creates a CSV-backed accident source
func NewRepository(path string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: path, logger: logger}
}

// Path returns the file this repository reads
func (r *Repository) Path() string {
	return r.path
}

// Identity keys the file by path, size and modification time
func (r *Repository) Identity(ctx context.Context) (string, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return "", fmt.Errorf("csvfile: failed to stat %s: %w", r.path, err)
	}
	return fmt.Sprintf("csv:%s:%d:%d", r.path, info.Size(), info.ModTime().UnixNano()), nil
}

// Health checks that the file is readable
func (r *Repository) Health(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("csvfile: health check failed: %w", err)
	}
	return f.Close()
}

// LoadAccidents parses the whole file
func (r *Repository) LoadAccidents(ctx context.Context) (*domain.Table, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, &domain.LoadError{Source: r.path, Err: err}
	}
	defer f.Close()

	table, skipped, err := Parse(ctx, f)
	if err != nil {
		return nil, &domain.LoadError{Source: r.path, Err: err}
	}
	if skipped > 0 {
		r.logger.Warn("skipped malformed csv rows",
			zap.String("path", r.path),
			zap.Int("skipped", skipped),
		)
	}
	return table, nil
}

// Parse reads a header row followed by accident rows. It fails only when the
// header is unreadable or lacks a required column; rows the reader cannot
// tokenize are skipped and counted, and bad values become nulls.
func Parse(ctx context.Context, r io.Reader) (*domain.Table, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("empty file: missing header row")
		}
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[i] = name
		index[name] = i
	}
	for _, req := range domain.RequiredColumns {
		if _, ok := index[req]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", req)
		}
	}

	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		accidents []domain.Accident
		skipped   int
		line      int
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, skipped, err
			}
		}

		accidents = append(accidents, domain.Accident{
			ID:               get(row, domain.ColID),
			StartTime:        ParseTime(get(row, domain.ColStartTime)),
			StartLat:         parseFloat(get(row, domain.ColStartLat)),
			StartLng:         parseFloat(get(row, domain.ColStartLng)),
			Severity:         parseInt(get(row, domain.ColSeverity)),
			State:            get(row, domain.ColState),
			City:             get(row, domain.ColCity),
			WeatherCondition: get(row, domain.ColWeather),
			Temperature:      parseFloat(get(row, domain.ColTemperature)),
			Visibility:       parseFloat(get(row, domain.ColVisibility)),
			Distance:         parseFloat(get(row, domain.ColDistance)),
		})
	}

	if accidents == nil {
		accidents = []domain.Accident{}
	}
	return domain.NewTable(columns, accidents), skipped, nil
}

// ParseTime accepts the timestamp layouts seen in the dataset; anything else is null
func ParseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseInt accepts integral floats such as "2.0"
func parseInt(s string) *int {
	f := parseFloat(s)
	if f == nil || *f != float64(int(*f)) {
		return nil
	}
	n := int(*f)
	return &n
}
