// Package metrics records plugin activity as Prometheus metrics.
//
// Metrics are registered lazily by InitMetrics; until then every Record
// call is a no-op, so library users that never enable metrics pay nothing.
// A launcher plugin has no scrape endpoint, so the CLI exports the default
// registry in text format with WriteTextfile (node_exporter textfile style).
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decrypt results.
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

// Clipboard clear outcomes.
const (
	ClearRestored = "restored"
	ClearSkipped  = "skipped"
	ClearFailed   = "failed"
)

var (
	decryptTotal    *prometheus.CounterVec
	decryptRetries  *prometheus.CounterVec
	decryptDuration *prometheus.HistogramVec
	catalogEntries  prometheus.Gauge
	clipboardPlaced prometheus.Counter
	clipboardClears *prometheus.CounterVec

	metricsOnce       sync.Once
	metricsRegistered bool
)

// Recorder provides methods to record plugin metrics.
type Recorder struct{}

// NewRecorder creates a Recorder. Metrics are lazily registered on InitMetrics.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// InitMetrics registers all metrics with the default registry.
func InitMetrics() {
	metricsOnce.Do(func() {
		decryptTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passlaunch_decrypt_total",
				Help: "Total number of entry decryptions by backend and result",
			},
			[]string{"backend", "result"},
		)

		decryptRetries = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passlaunch_decrypt_prompt_retries_total",
				Help: "Decryptions that were retried with a visible terminal for a passphrase prompt",
			},
			[]string{"backend"},
		)

		decryptDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "passlaunch_decrypt_duration_seconds",
				Help:    "Duration of entry decryptions in seconds, including passphrase prompts",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 30, 120},
			},
			[]string{"backend"},
		)

		catalogEntries = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "passlaunch_catalog_entries",
				Help: "Number of entries found by the last catalog refresh",
			},
		)

		clipboardPlaced = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "passlaunch_clipboard_placements_total",
				Help: "Secrets placed on the clipboard",
			},
		)

		clipboardClears = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passlaunch_clipboard_clears_total",
				Help: "Fired clipboard clear timers by outcome",
			},
			[]string{"outcome"},
		)

		metricsRegistered = true
	})
}

// RecordDecrypt records one decryption attempt.
func (r *Recorder) RecordDecrypt(backend, result string, durationSeconds float64) {
	if !metricsRegistered {
		return
	}
	decryptTotal.WithLabelValues(backend, result).Inc()
	decryptDuration.WithLabelValues(backend).Observe(durationSeconds)
}

// RecordPromptRetry records a visible-terminal retry.
func (r *Recorder) RecordPromptRetry(backend string) {
	if !metricsRegistered {
		return
	}
	decryptRetries.WithLabelValues(backend).Inc()
}

// RecordCatalog records the size of a refreshed catalog.
func (r *Recorder) RecordCatalog(entries int) {
	if !metricsRegistered {
		return
	}
	catalogEntries.Set(float64(entries))
}

// RecordPlacement records a secret written to the clipboard.
func (r *Recorder) RecordPlacement() {
	if !metricsRegistered {
		return
	}
	clipboardPlaced.Inc()
}

// RecordClear records the outcome of a fired clear timer.
func (r *Recorder) RecordClear(outcome string) {
	if !metricsRegistered {
		return
	}
	clipboardClears.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the default registry to path in the Prometheus text
// format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
