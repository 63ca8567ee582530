// Package events publishes analysis results to Kafka so downstream
// consumers see the same atomic snapshots the store does.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
	"github.com/SanjayR-26/speech-ai-sub001/internal/observability/metrics"
)

// Event types published after every (re)computation.
const (
	EventTranscriptReady = "transcript.ready"
	EventMetricsComputed = "metrics.computed"
)

// TranscriptReadyEvent carries the normalized transcript for one
// snapshot version.
type TranscriptReadyEvent struct {
	EventType string                     `json:"eventType"`
	CallID    string                     `json:"callId"`
	Version   int                        `json:"version"`
	Timestamp int64                      `json:"timestamp"`
	Segments  []models.NormalizedSegment `json:"segments"`
	Warnings  []models.Warning           `json:"warnings,omitempty"`
}

// MetricsComputedEvent carries the QA metrics for one snapshot version.
type MetricsComputedEvent struct {
	EventType string                      `json:"eventType"`
	CallID    string                      `json:"callId"`
	Version   int                         `json:"version"`
	Timestamp int64                       `json:"timestamp"`
	Metrics   models.TranscriptionMetrics `json:"metrics"`
}

// Publisher publishes snapshot events to separate Kafka topics.
type Publisher struct {
	writerTranscripts *kafka.Writer
	writerMetrics     *kafka.Writer
	principal         string
	topicTranscripts  string
	topicMetrics      string
	enabled           bool
	metrics           *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers          []string
	TopicTranscripts string
	TopicMetrics     string
	Principal        string
	Enabled          bool
}

// New creates a Kafka publisher with separate topics for transcripts
// and metrics. A nil or disabled config yields a log-only publisher.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{enabled: false, metrics: m}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:        cfg.Principal,
			topicTranscripts: cfg.TopicTranscripts,
			topicMetrics:     cfg.TopicMetrics,
			enabled:          false,
			metrics:          m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes.
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{Dial: dialer.DialFunc}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Transport:    transport,
		}
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicTranscripts", cfg.TopicTranscripts).
		Str("topicMetrics", cfg.TopicMetrics).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerTranscripts: newWriter(cfg.TopicTranscripts),
		writerMetrics:     newWriter(cfg.TopicMetrics),
		principal:         cfg.Principal,
		topicTranscripts:  cfg.TopicTranscripts,
		topicMetrics:      cfg.TopicMetrics,
		enabled:           true,
		metrics:           m,
	}
}

// PublishSnapshot publishes both events for a freshly computed
// snapshot, keyed by call ID so one call's versions stay ordered.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap *models.AnalysisSnapshot) error {
	now := time.Now().UnixMilli()

	transcriptEvt := TranscriptReadyEvent{
		EventType: EventTranscriptReady,
		CallID:    snap.CallID,
		Version:   snap.Version,
		Timestamp: now,
		Segments:  snap.Segments,
		Warnings:  snap.Warnings,
	}
	if err := p.publish(ctx, p.writerTranscripts, p.topicTranscripts, EventTranscriptReady, snap.CallID, transcriptEvt); err != nil {
		return err
	}

	metricsEvt := MetricsComputedEvent{
		EventType: EventMetricsComputed,
		CallID:    snap.CallID,
		Version:   snap.Version,
		Timestamp: now,
		Metrics:   snap.Metrics,
	}
	return p.publish(ctx, p.writerMetrics, p.topicMetrics, EventMetricsComputed, snap.CallID, metricsEvt)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log.
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerTranscripts != nil {
		if e := p.writerTranscripts.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing transcripts writer")
			err = e
		}
	}
	if p.writerMetrics != nil {
		if e := p.writerMetrics.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing metrics writer")
			err = e
		}
	}
	return err
}
