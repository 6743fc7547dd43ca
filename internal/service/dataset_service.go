package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/internal/metrics"
	"github.com/smartcity/accidents/pkg/utils"
)

// ErrInvalidSampleSize rejects non-positive sample sizes
var ErrInvalidSampleSize = errors.New("sample size must be positive")

// AppState describes the dataset currently served. It is created empty at
// startup and only changed by Load and Invalidate.
type AppState struct {
	Loaded     bool      `json:"loaded"`
	LoadID     string    `json:"load_id,omitempty"`
	Source     string    `json:"source,omitempty"`
	SampleSize *int      `json:"sample_size"`
	Rows       int       `json:"rows"`
	LoadedAt   time.Time `json:"loaded_at,omitempty"`
}

// RemoteFile describes a source file that must be downloaded before loading
type RemoteFile struct {
	URL  string
	Path string
}

// DatasetService loads the accident table and serves it read-only to views
type DatasetService struct {
	source  AccidentSource
	fetcher *Fetcher
	remote  *RemoteFile
	cache   *DatasetCache
	logger  *zap.Logger

	mu    sync.RWMutex
	state AppState
	table *domain.Table
}

// NewDatasetService creates a dataset service. fetcher and remote may be nil
// when the source needs no download.
func NewDatasetService(source AccidentSource, fetcher *Fetcher, remote *RemoteFile, logger *zap.Logger) *DatasetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetService{
		source:  source,
		fetcher: fetcher,
		remote:  remote,
		cache:   NewDatasetCache(),
		logger:  logger,
	}
}

// Load fetches (if needed), reads, samples and prepares the table, then makes
// it the current dataset. A nil sampleSize keeps every row. Repeated loads
// with the same source content and sample size are served from the cache.
func (s *DatasetService) Load(ctx context.Context, sampleSize *int) (*domain.Table, error) {
	if sampleSize != nil && *sampleSize <= 0 {
		return nil, ErrInvalidSampleSize
	}

	if s.fetcher != nil && s.remote != nil {
		if err := s.fetcher.Ensure(ctx, s.remote.URL, s.remote.Path); err != nil {
			metrics.DatasetLoadsTotal.WithLabelValues("fetch_error").Inc()
			return nil, err
		}
	}

	identity, err := s.source.Identity(ctx)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("load_error").Inc()
		return nil, &domain.LoadError{Source: "dataset", Err: err}
	}
	key := KeyFor(identity, sampleSize)

	if table, ok := s.cache.Get(key); ok {
		metrics.DatasetLoadsTotal.WithLabelValues("cached").Inc()
		s.setCurrent(key, sampleSize, table)
		s.logger.Debug("dataset served from cache", zap.String("key", key.String()))
		return table, nil
	}

	start := time.Now()
	raw, err := s.source.LoadAccidents(ctx)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("load_error").Inc()
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &domain.LoadError{Source: identity, Err: err}
	}

	table := Prepare(raw, sampleSize)
	metrics.LoadDuration.Observe(time.Since(start).Seconds())
	metrics.DatasetLoadsTotal.WithLabelValues("ok").Inc()

	s.cache.Put(key, table)
	s.setCurrent(key, sampleSize, table)

	s.logger.Info("dataset loaded",
		zap.String("key", key.String()),
		zap.Int("source_rows", raw.Len()),
		zap.Int("rows", table.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return table, nil
}

func (s *DatasetService) setCurrent(key CacheKey, sampleSize *int, table *domain.Table) {
	var size *int
	if sampleSize != nil {
		n := *sampleSize
		size = &n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
	s.state = AppState{
		Loaded:     true,
		LoadID:     uuid.NewString(),
		Source:     key.Source,
		SampleSize: size,
		Rows:       table.Len(),
		LoadedAt:   time.Now(),
	}
	metrics.DatasetRows.Set(float64(table.Len()))
}

// Current returns the loaded table, or domain.ErrNotLoaded
func (s *DatasetService) Current() (*domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.Loaded {
		return nil, domain.ErrNotLoaded
	}
	return s.table, nil
}

// State returns a snapshot of the application state
func (s *DatasetService) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Invalidate forgets the cached and current dataset
func (s *DatasetService) Invalidate() {
	s.cache.Invalidate()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = nil
	s.state = AppState{}
	metrics.DatasetRows.Set(0)
}

// Health checks the underlying source
func (s *DatasetService) Health(ctx context.Context) error {
	if err := s.source.Health(ctx); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	return nil
}

// Prepare draws the sample (fixed seed, source order kept) and derives the
// calendar fields. raw is not modified.
func Prepare(raw *domain.Table, sampleSize *int) *domain.Table {
	n := raw.Len()
	k := n
	if sampleSize != nil && *sampleSize < n {
		k = *sampleSize
	}

	idx := utils.SampleIndices(n, k, domain.SampleSeed)
	accidents := make([]domain.Accident, len(idx))
	for i, j := range idx {
		a := raw.Accidents[j]
		a.DeriveCalendar()
		accidents[i] = a
	}
	return raw.Derive(accidents)
}
