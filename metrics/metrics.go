package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type pipelineCollector struct {
	Suggestions        prometheus.Counter
	Feedback           *prometheus.CounterVec
	Enrichments        *prometheus.CounterVec
	EnrichmentDuration prometheus.Histogram
	PersistedEntries   prometheus.Counter
}

var (
	globalCollector *pipelineCollector
	collectorOnce   sync.Once
)

func getCollector() *pipelineCollector {
	collectorOnce.Do(func() {
		globalCollector = &pipelineCollector{
			Suggestions: promauto.NewCounter(prometheus.CounterOpts{
				Name: "mood_suggestion_computations_total",
				Help: "The total number of suggestion engine invocations",
			}),
			Feedback: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mood_suggestion_feedback_total",
					Help: "The total number of suggestion feedback reports",
				},
				[]string{"accurate"},
			),
			Enrichments: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mood_enrichment_attempts_total",
					Help: "The total number of entry enrichment attempts by outcome",
				},
				[]string{"outcome"},
			),
			EnrichmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "mood_enrichment_duration_seconds",
				Help:    "Enrichment attempt duration in seconds",
				Buckets: prometheus.DefBuckets,
			}),
			PersistedEntries: promauto.NewCounter(prometheus.CounterOpts{
				Name: "mood_persisted_entries_total",
				Help: "The total number of entries persisted to the store",
			}),
		}
	})
	return globalCollector
}

// PipelineMetrics records pipeline activity to Prometheus.
type PipelineMetrics struct {
	collector *pipelineCollector
}

func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{collector: getCollector()}
}

func (m *PipelineMetrics) RecordSuggestion() {
	m.collector.Suggestions.Inc()
}

func (m *PipelineMetrics) RecordFeedback(accurate bool) {
	label := "false"
	if accurate {
		label = "true"
	}
	m.collector.Feedback.WithLabelValues(label).Inc()
}

// RecordEnrichment records one enrichment attempt. Outcome is one of
// "success", "failure" or "skipped".
func (m *PipelineMetrics) RecordEnrichment(outcome string, durationSeconds float64) {
	m.collector.Enrichments.WithLabelValues(outcome).Inc()
	if outcome != "skipped" {
		m.collector.EnrichmentDuration.Observe(durationSeconds)
	}
}

func (m *PipelineMetrics) RecordPersistedEntry() {
	m.collector.PersistedEntries.Inc()
}
