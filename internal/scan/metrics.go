package scan

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution kinds recorded in ddscan_posts_resolved_total.
const (
	KindExplicit = "explicit"
	KindInferred = "inferred"
	KindNone     = "none"
)

// Metrics holds the Prometheus collectors for scan runs. They live on a
// private registry so a run can be dumped to a node-exporter textfile.
type Metrics struct {
	PostsTotal         *prometheus.CounterVec
	PostsResolvedTotal *prometheus.CounterVec
	SourceErrorsTotal  *prometheus.CounterVec
	ScanDuration       prometheus.Histogram
	DirectoryCompanies prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PostsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ddscan_posts_total",
				Help: "Posts fetched by source, before filtering.",
			},
			[]string{"source"},
		),
		PostsResolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ddscan_posts_resolved_total",
				Help: "Scanned posts by how their tickers were found (explicit, inferred, none).",
			},
			[]string{"kind"},
		),
		SourceErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ddscan_source_errors_total",
				Help: "Failed source fetches.",
			},
			[]string{"source"},
		),
		ScanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ddscan_scan_duration_seconds",
				Help:    "Wall time of a scan run in seconds.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		DirectoryCompanies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ddscan_directory_companies",
				Help: "Companies in the loaded reference directory.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.PostsTotal,
		m.PostsResolvedTotal,
		m.SourceErrorsTotal,
		m.ScanDuration,
		m.DirectoryCompanies,
	)

	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the current values in the text exposition format to
// path, replacing the file atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
