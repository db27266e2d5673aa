// Package metrics holds the domain Prometheus collectors. A nil *Metrics is
// valid and records nothing, which keeps the CLI free of a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sync outcomes recorded in sp3_sync_files_total.
const (
	SyncDownloaded = "downloaded"
	SyncFailed     = "failed"
	SyncSkipped    = "skipped"
)

// Metrics groups the collectors of the sync and analysis pipelines.
type Metrics struct {
	syncFiles        *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	parsedEpochs     prometheus.Counter
	parseCache       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		syncFiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sp3_sync_files_total",
				Help: "SP3 files handled by archive sync, by result.",
			},
			[]string{"result"},
		),
		analysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sp3_analysis_duration_seconds",
				Help:    "Wall time of a clock analysis run.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
		),
		parsedEpochs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sp3_parsed_epochs_total",
				Help: "Epochs accepted while parsing SP3 files.",
			},
		),
		parseCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sp3_parse_cache_total",
				Help: "Parsed-file cache lookups, by result.",
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.syncFiles, m.analysisDuration, m.parsedEpochs, m.parseCache} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SyncFile counts one file outcome.
func (m *Metrics) SyncFile(result string) {
	if m == nil {
		return
	}
	m.syncFiles.WithLabelValues(result).Inc()
}

// AnalysisDone observes the duration since start.
func (m *Metrics) AnalysisDone(start time.Time) {
	if m == nil {
		return
	}
	m.analysisDuration.Observe(time.Since(start).Seconds())
}

// ParsedEpochs adds n accepted epochs.
func (m *Metrics) ParsedEpochs(n int) {
	if m == nil {
		return
	}
	m.parsedEpochs.Add(float64(n))
}

// CacheLookup counts a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.parseCache.WithLabelValues(result).Inc()
}
