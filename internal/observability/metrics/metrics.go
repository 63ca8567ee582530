// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "call_qa"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Analysis metrics
	CallsAnalyzed    prometheus.Counter
	AnalysisFailures *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram

	// Correction metrics
	CorrectionsApplied prometheus.Counter

	// Segment metrics
	SegmentsNormalized prometheus.Counter
	OverlapSegments    prometheus.Counter
	UnresolvedSegments prometheus.Counter
	WarningsRaised     *prometheus.CounterVec

	// Provider metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		CallsAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_analyzed_total",
			Help:      "Total number of calls analyzed successfully",
		}),
		AnalysisFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Total number of failed analyses",
		}, []string{"reason"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a full normalization and metrics pass",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		CorrectionsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrections_applied_total",
			Help:      "Total number of manual speaker corrections applied",
		}),

		SegmentsNormalized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_normalized_total",
			Help:      "Total number of segments normalized",
		}),
		OverlapSegments: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlap_segments_total",
			Help:      "Total number of segments flagged as overlapping speech",
		}),
		UnresolvedSegments: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_segments_total",
			Help:      "Total number of segments with an unresolved role",
		}),
		WarningsRaised: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_raised_total",
			Help:      "Total number of data-quality warnings raised",
		}, []string{"code"}),

		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total number of transcription provider requests",
		}, []string{"provider", "status"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Transcription provider request latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"provider"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordAnalysis records a successful analysis pass and its segment
// level outcomes.
func (m *Metrics) RecordAnalysis(durationSeconds float64, segments, overlaps, unresolved int) {
	m.CallsAnalyzed.Inc()
	m.AnalysisDuration.Observe(durationSeconds)
	m.SegmentsNormalized.Add(float64(segments))
	m.OverlapSegments.Add(float64(overlaps))
	m.UnresolvedSegments.Add(float64(unresolved))
}

// RecordAnalysisFailure records a failed analysis by reason.
func (m *Metrics) RecordAnalysisFailure(reason string) {
	m.AnalysisFailures.WithLabelValues(reason).Inc()
}

// RecordCorrection records a manual speaker correction being applied.
func (m *Metrics) RecordCorrection() {
	m.CorrectionsApplied.Inc()
}

// RecordWarning records a data-quality warning by code.
func (m *Metrics) RecordWarning(code string) {
	m.WarningsRaised.WithLabelValues(code).Inc()
}

// RecordProviderRequest records a transcription provider round trip.
func (m *Metrics) RecordProviderRequest(provider string, err error, latencySeconds float64) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ProviderRequests.WithLabelValues(provider, status).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
