// Package metric records per-run archive metrics with prometheus. A CLI run
// has no scrape endpoint, so the registry can be dumped to a node_exporter
// textfile instead.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Recorder struct {
	registry *prometheus.Registry
	archives *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewRecorder(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		archives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archives_total",
			Help:      "Archives attempted, by compression method and outcome.",
		}, []string{"method", "outcome"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_bytes_total",
			Help:      "Source bytes read into archives, by compression method.",
		}, []string{"method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compress_duration_seconds",
			Help:      "Time spent writing and sealing an archive.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"method"}),
	}
	r.registry.MustRegister(r.archives, r.bytes, r.duration)
	return r
}

// Observe records one archive attempt. A nil Recorder is a no-op.
func (r *Recorder) Observe(method string, err error, sourceBytes int, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	r.archives.WithLabelValues(method, outcome).Inc()
	r.bytes.WithLabelValues(method).Add(float64(sourceBytes))
	r.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile dumps the registry in text exposition format. An empty path
// disables it.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
