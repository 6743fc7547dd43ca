package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dataset loads by outcome: ok, cached, fetch_error, load_error
	DatasetLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accidents_dataset_loads_total",
		Help: "Total number of dataset load attempts by outcome",
	}, []string{"outcome"})

	// Rows in the currently loaded table
	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "accidents_dataset_rows",
		Help: "Number of accident rows in the loaded dataset",
	})

	// Remote download latency
	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "accidents_fetch_duration_seconds",
		Help:    "Time taken to download the dataset file",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7min
	})

	// Parse + sample + derive latency
	LoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "accidents_load_duration_seconds",
		Help:    "Time taken to read and prepare the dataset",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
	})

	// View computations by view name
	ViewRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accidents_view_requests_total",
		Help: "Total number of view computations by view",
	}, []string{"view"})

	// Rows surviving the filter per view request
	FilteredRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "accidents_filtered_rows",
		Help:    "Number of rows matching the request filters",
		Buckets: prometheus.ExponentialBuckets(1, 4, 11), // 1 to ~1M rows
	})
)
