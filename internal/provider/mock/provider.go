// Package mock provides a deterministic provider for tests and for
// running the service without provider credentials. It returns a
// canned two-speaker support call with sentiments and overlapping
// speech, so every downstream component has something to chew on.
package mock

import (
	"context"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider"
)

func f(v float64) *float64 { return &v }

func s(label models.SentimentLabel) *models.SentimentLabel { return &label }

// DefaultCall is the canned payload returned by Transcribe. Speaker "A"
// opens the call (and so normalizes to Agent); the customer interrupts
// at 19s to exercise overlap detection.
var DefaultCall = provider.Payload{
	Text: "Thank you for calling support, how can I help you today? " +
		"Hi, my subscription was charged twice this month. " +
		"I am sorry about that, let me take a look. " +
		"Yes I can see the duplicate charge. " +
		"I have issued a refund, it should arrive within three business days. " +
		"Okay great, thank you so much.",
	DurationSec:  48,
	LanguageCode: "en_us",
	Segments: []models.RawSegment{
		{Speaker: "A", Text: "Thank you for calling support, how can I help you today?",
			Start: 0.4, End: 4.8, Confidence: f(0.95), Sentiment: s(models.SentimentPositive)},
		{Speaker: "B", Text: "Hi, my subscription was charged twice this month.",
			Start: 5.6, End: 9.9, Confidence: f(0.91), Sentiment: s(models.SentimentNegative)},
		{Speaker: "A", Text: "I am sorry about that, let me take a look.",
			Start: 10.7, End: 14.2, Confidence: f(0.94), Sentiment: s(models.SentimentNeutral)},
		{Speaker: "A", Text: "Yes I can see the duplicate charge.",
			Start: 17.5, End: 20.6, Confidence: f(0.93), Sentiment: s(models.SentimentNeutral)},
		{Speaker: "B", Text: "So will I get my money back?",
			Start: 19.8, End: 22.3, Confidence: f(0.88), Sentiment: s(models.SentimentNegative)},
		{Speaker: "A", Text: "I have issued a refund, it should arrive within three business days.",
			Start: 23.0, End: 28.4, Confidence: f(0.96), Sentiment: s(models.SentimentPositive)},
		{Speaker: "B", Text: "Okay great, thank you so much.",
			Start: 29.2, End: 31.5, Confidence: f(0.97), Sentiment: s(models.SentimentPositive)},
	},
}

// Provider implements provider.Provider with canned responses.
type Provider struct{}

// New creates a new mock provider.
func New() *Provider { return &Provider{} }

// Name identifies the provider.
func (p *Provider) Name() string { return "mock" }

// Transcribe returns a copy of DefaultCall regardless of audioURL.
func (p *Provider) Transcribe(_ context.Context, _ string) (*provider.Payload, error) {
	payload := DefaultCall
	payload.Segments = make([]models.RawSegment, len(DefaultCall.Segments))
	copy(payload.Segments, DefaultCall.Segments)
	return &payload, nil
}
