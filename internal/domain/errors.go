package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData marks outcomes where no dataset is available to the views
	ErrNoData = errors.New("no data available")

	// ErrNotLoaded is returned by views before the first successful load
	ErrNotLoaded = fmt.Errorf("dataset not loaded: %w", ErrNoData)
)

// FetchError is a failed remote retrieval. It is not fatal; the user may retry.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNoData) match a failed fetch
func (e *FetchError) Is(target error) bool { return target == ErrNoData }

// LoadError is a source that could not be parsed at all
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
