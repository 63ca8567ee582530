package mock

import (
	"context"
	"testing"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

func TestProvider_Transcribe(t *testing.T) {
	p := New()

	payload, err := p.Transcribe(context.Background(), "file:///ignored.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload.Segments) != len(DefaultCall.Segments) {
		t.Fatalf("expected %d segments, got %d", len(DefaultCall.Segments), len(payload.Segments))
	}
	if payload.DurationSec != 48 {
		t.Errorf("expected 48s duration, got %v", payload.DurationSec)
	}

	// The canned call must contain a cross-speaker intersection so
	// overlap detection has something to find.
	foundOverlap := false
	for i, a := range payload.Segments {
		for _, b := range payload.Segments[i+1:] {
			if a.Speaker != b.Speaker && a.Start < b.End && b.Start < a.End {
				foundOverlap = true
			}
		}
	}
	if !foundOverlap {
		t.Error("canned call should contain overlapping speech")
	}

	for i, s := range payload.Segments {
		if s.Confidence == nil {
			t.Errorf("segment %d: missing confidence", i)
		}
		if s.Sentiment == nil {
			t.Errorf("segment %d: missing sentiment", i)
		}
	}
}

func TestProvider_TranscribeReturnsCopy(t *testing.T) {
	p := New()
	ctx := context.Background()

	first, _ := p.Transcribe(ctx, "")
	first.Segments[0].Speaker = "mutated"
	first.Segments[0].Sentiment = nil

	second, _ := p.Transcribe(ctx, "")
	if second.Segments[0].Speaker != "A" {
		t.Errorf("canned payload mutated across calls: %s", second.Segments[0].Speaker)
	}
	if second.Segments[0].Sentiment == nil || *second.Segments[0].Sentiment != models.SentimentPositive {
		t.Error("canned sentiment mutated across calls")
	}
}
