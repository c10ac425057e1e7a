package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// accident-data ETL.
type Metrics struct {
	ArchivesDownloaded prometheus.Counter
	DownloadSkips      prometheus.Counter

	RowsParsed  *prometheus.CounterVec // label: region
	RowsSkipped *prometheus.CounterVec // label: region (short rows dropped)

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	BuildDuration prometheus.Histogram

	RowsExported prometheus.Counter
}

// NewMetrics creates and registers all ETL metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ArchivesDownloaded,
		m.DownloadSkips,
		m.RowsParsed,
		m.RowsSkipped,
		m.CacheHits,
		m.CacheMisses,
		m.BuildDuration,
		m.RowsExported,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ArchivesDownloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_etl",
			Name:      "archives_downloaded_total",
			Help:      "Total ZIP archives downloaded from the index page.",
		}),
		DownloadSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_etl",
			Name:      "download_skips_total",
			Help:      "Archive links skipped due to non-success responses.",
		}),
		RowsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_etl",
			Name:      "rows_parsed_total",
			Help:      "CSV data rows parsed into region tables.",
		}, []string{"region"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_etl",
			Name:      "rows_skipped_total",
			Help:      "CSV rows dropped for having too few columns.",
		}, []string{"region"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_etl",
			Name:      "cache_hits_total",
			Help:      "Region requests served from the file cache or memo.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_etl",
			Name:      "cache_misses_total",
			Help:      "Region requests that required a full build.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accident_etl",
			Name:      "build_duration_seconds",
			Help:      "Duration of one region table build across all archives.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RowsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_etl",
			Name:      "rows_exported_total",
			Help:      "Rows published to the Kafka sink topic.",
		}),
	}
}
