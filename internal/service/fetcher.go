package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/internal/metrics"
)

// ErrNotDataFile marks a response that is a web page instead of the data file,
// such as a download confirmation page
var ErrNotDataFile = errors.New("response is not a data file")

// sniffLen is how much of the body is inspected before writing
const sniffLen = 512

// Fetcher downloads the dataset file into local storage
type Fetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a fetcher with the given download timeout
func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Ensure makes sure dest holds the file behind url. An existing dest is left
// untouched. A single attempt is made; failures return *domain.FetchError and
// never leave a partial file at dest.
func (f *Fetcher) Ensure(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return &domain.FetchError{URL: url, Err: err}
	}

	start := time.Now()
	f.logger.Info("downloading dataset", zap.String("url", url), zap.String("dest", dest))

	if err := f.download(ctx, url, dest); err != nil {
		f.logger.Error("dataset download failed", zap.String("url", url), zap.Error(err))
		return &domain.FetchError{URL: url, Err: err}
	}

	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	f.logger.Info("dataset downloaded", zap.String("dest", dest), zap.Duration("took", time.Since(start)))
	return nil
}

func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("fetcher: failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetcher: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetcher: unexpected status %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(strings.ToLower(ct), "text/html") {
		return fmt.Errorf("fetcher: content type %q: %w", ct, ErrNotDataFile)
	}
	body := bufio.NewReaderSize(resp.Body, sniffLen)
	head, err := body.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("fetcher: failed to read body: %w", err)
	}
	if looksLikeMarkup(head) {
		return fmt.Errorf("fetcher: body starts with markup: %w", ErrNotDataFile)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("fetcher: failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".*.part")
	if err != nil {
		return fmt.Errorf("fetcher: failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("fetcher: failed to write body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("fetcher: failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("fetcher: failed to move file into place: %w", err)
	}
	return nil
}

// looksLikeMarkup reports whether head is an HTML or XML document. A CSV
// header never starts with '<'.
func looksLikeMarkup(head []byte) bool {
	head = bytes.TrimPrefix(head, []byte("\ufeff"))
	head = bytes.TrimLeft(head, " \t\r\n")
	return len(head) > 0 && head[0] == '<'
}
