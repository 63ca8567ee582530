// Package provider defines the interface to the external
// speech-intelligence provider and the provider-neutral transcript
// payload the analysis core consumes.
package provider

import (
	"context"
	"encoding/json"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

// Payload is a completed transcription result from a provider.
// Chapters, Entities and ContentSafety are optional provider blocks
// carried through to the snapshot unmodified; the analysis core never
// computes or interprets them.
type Payload struct {
	Text          string
	Segments      []models.RawSegment
	DurationSec   float64
	LanguageCode  string
	Chapters      json.RawMessage
	Entities      json.RawMessage
	ContentSafety json.RawMessage
}

// Provider transcribes a recorded call into a diarized payload.
// Implementations own their retry/timeout behavior; the analysis core
// only sees the synchronously returned payload.
type Provider interface {
	// Name identifies the provider (e.g. "assemblyai", "google", "mock").
	Name() string

	// Transcribe submits the recording at audioURL and blocks until the
	// provider returns a completed transcript or the context is done.
	Transcribe(ctx context.Context, audioURL string) (*Payload, error)
}
