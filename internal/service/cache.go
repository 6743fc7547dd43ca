package service

import (
	"fmt"
	"sync"

	"github.com/smartcity/accidents/internal/domain"
)

// CacheKey identifies a loaded table: the source content and the sample size
type CacheKey struct {
	Source     string
	SampleSize int // 0 = all rows
}

func (k CacheKey) String() string {
	if k.SampleSize == 0 {
		return fmt.Sprintf("%s@all", k.Source)
	}
	return fmt.Sprintf("%s@%d", k.Source, k.SampleSize)
}

// KeyFor builds the cache key for a source identity and optional sample size
func KeyFor(source string, sampleSize *int) CacheKey {
	k := CacheKey{Source: source}
	if sampleSize != nil {
		k.SampleSize = *sampleSize
	}
	return k
}

// DatasetCache holds the table of a single key. Storing a different key
// evicts the previous table, so a stale table is never served for a new
// source or sample size.
type DatasetCache struct {
	mu    sync.Mutex
	key   CacheKey
	table *domain.Table
}

// NewDatasetCache creates an empty cache
func NewDatasetCache() *DatasetCache {
	return &DatasetCache{}
}

// Get returns the cached table for key, if any
func (c *DatasetCache) Get(key CacheKey) (*domain.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil || c.key != key {
		return nil, false
	}
	return c.table, true
}

// Put stores table under key, replacing whatever was cached
func (c *DatasetCache) Put(key CacheKey, table *domain.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.table = table
}

// Invalidate drops the cached table
func (c *DatasetCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = CacheKey{}
	c.table = nil
}
