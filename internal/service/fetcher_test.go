package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartcity/accidents/internal/domain"
)

func TestFetcherDownloadsOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "data", "us_accidents.csv")
	f := NewFetcher(5*time.Second, nil)

	for i := 0; i < 2; i++ {
		if err := f.Ensure(context.Background(), srv.URL, dest); err != nil {
			t.Fatalf("Ensure #%d: %v", i, err)
		}
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("remote hit %d times, want 1", n)
	}
	body, err := os.ReadFile(dest)
	if err != nil || string(body) != "a,b\n1,2\n" {
		t.Errorf("dest = %q, %v", body, err)
	}
}

func TestFetcherFailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "us_accidents.csv")
	err := NewFetcher(5*time.Second, nil).Ensure(context.Background(), srv.URL, dest)

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("want *domain.FetchError, got %v", err)
	}
	if !errors.Is(err, domain.ErrNoData) {
		t.Error("fetch error should read as no data")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("destination should not exist after failure")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("leftover files: %v", entries)
	}
}

func TestFetcherRejectsWebPages(t *testing.T) {
	page := "<!DOCTYPE html><html><body>Google Drive can't scan this file for viruses.</body></html>"
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"html content type", "text/html; charset=utf-8", page},
		{"markup body", "application/octet-stream", "\n  " + page},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			dir := t.TempDir()
			dest := filepath.Join(dir, "us_accidents.csv")
			err := NewFetcher(5*time.Second, nil).Ensure(context.Background(), srv.URL, dest)

			var fetchErr *domain.FetchError
			if !errors.As(err, &fetchErr) || !errors.Is(err, ErrNotDataFile) {
				t.Fatalf("want FetchError wrapping ErrNotDataFile, got %v", err)
			}
			if entries, _ := os.ReadDir(dir); len(entries) != 0 {
				t.Errorf("leftover files: %v", entries)
			}
		})
	}
}

func TestDatasetLoadKeepsReportingWebPageAsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<!DOCTYPE html><html></html>"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "us_accidents.csv")
	svc := NewDatasetService(&stubSource{identity: "stub"}, NewFetcher(5*time.Second, nil), &RemoteFile{URL: srv.URL, Path: dest}, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Load(context.Background(), nil)
		var fetchErr *domain.FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("load #%d: want FetchError, got %v", i, err)
		}
	}
}
