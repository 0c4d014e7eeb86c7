// Package metrics records validation outcomes and provider lookups as
// Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/qhub/internal/config"
)

// Recorder implements config.Recorder on its own registry, so several
// recorders can coexist in one process (and in tests).
type Recorder struct {
	registry *prometheus.Registry

	validationsTotal *prometheus.CounterVec
	issuesTotal      *prometheus.CounterVec
	lookupsTotal     *prometheus.CounterVec
	lookupDuration   *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "qhub",
				Name:      "validations_total",
				Help:      "Total number of validated documents by result",
			},
			[]string{"result"},
		),

		issuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "qhub",
				Name:      "validation_issues_total",
				Help:      "Total number of validation issues and warnings by kind",
			},
			[]string{"kind"},
		),

		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "qhub",
				Name:      "provider_lookups_total",
				Help:      "Total number of provider lookups by provider and result",
			},
			[]string{"provider", "result"},
		),

		lookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "qhub",
				Name:      "provider_lookup_duration_seconds",
				Help:      "Duration of provider lookups in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"provider"},
		),
	}

	r.registry.MustRegister(r.validationsTotal, r.issuesTotal, r.lookupsTotal, r.lookupDuration)
	return r
}

// Registry returns the registry the metrics live on.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveValidation implements config.Recorder.
func (r *Recorder) ObserveValidation(result string, issues []config.Issue) {
	r.validationsTotal.WithLabelValues(result).Inc()
	for _, issue := range issues {
		r.issuesTotal.WithLabelValues(string(issue.Kind)).Inc()
	}
}

// ObserveLookup implements config.Recorder.
func (r *Recorder) ObserveLookup(provider config.ProviderType, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.lookupsTotal.WithLabelValues(string(provider), result).Inc()
	r.lookupDuration.WithLabelValues(string(provider)).Observe(d.Seconds())
}

// WriteToTextfile writes the metrics in the text format the node exporter
// textfile collector reads.
func (r *Recorder) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

var _ config.Recorder = (*Recorder)(nil)
