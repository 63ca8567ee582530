// Package google provides a Google Cloud Speech-to-Text provider with
// speaker diarization.
package google

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider"
)

// Config holds recognition settings for batch transcription.
type Config struct {
	LanguageCode string
	SampleRateHz int32
}

// Adapter implements provider.Provider using Google Cloud
// Speech-to-Text batch recognition. Diarization is fixed to the
// two-party model; word-level speaker tags are grouped into segments.
type Adapter struct {
	client *speech.Client
	cfg    Config
}

// New creates a new Google provider.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.SampleRateHz == 0 {
		cfg.SampleRateHz = 8000
	}
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Name identifies the provider.
func (a *Adapter) Name() string { return "google" }

// Transcribe runs a long-running recognition over the recording, which
// must be a gs:// URI, and maps diarized words onto raw segments.
func (a *Adapter) Transcribe(ctx context.Context, audioURL string) (*provider.Payload, error) {
	if !strings.HasPrefix(audioURL, "gs://") {
		return nil, fmt.Errorf("google speech requires a gs:// uri, got %q", audioURL)
	}

	op, err := a.client.LongRunningRecognize(ctx, &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:              speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:       a.cfg.SampleRateHz,
			LanguageCode:          a.cfg.LanguageCode,
			EnableWordTimeOffsets: true,
			DiarizationConfig: &speechpb.SpeakerDiarizationConfig{
				EnableSpeakerDiarization: true,
				MinSpeakerCount:          2,
				MaxSpeakerCount:          2,
			},
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: audioURL},
		},
	})
	if err != nil {
		return nil, err
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return a.toPayload(resp), nil
}

// Close releases the underlying gRPC client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// toPayload builds the payload from a recognition response. The final
// result of a diarized response carries the complete word list with
// speaker tags; consecutive words sharing a tag become one segment.
func (a *Adapter) toPayload(resp *speechpb.LongRunningRecognizeResponse) *provider.Payload {
	payload := &provider.Payload{LanguageCode: a.cfg.LanguageCode}
	if len(resp.Results) == 0 {
		return payload
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) > 0 {
			parts = append(parts, strings.TrimSpace(r.Alternatives[0].Transcript))
		}
	}
	payload.Text = strings.Join(parts, " ")

	last := resp.Results[len(resp.Results)-1]
	if len(last.Alternatives) == 0 {
		return payload
	}
	alt := last.Alternatives[0]
	conf := float64(alt.Confidence)

	var segments []models.RawSegment
	for _, w := range alt.Words {
		start := w.StartTime.AsDuration().Seconds()
		end := w.EndTime.AsDuration().Seconds()
		token := strconv.Itoa(int(w.SpeakerTag))

		if n := len(segments); n > 0 && segments[n-1].Speaker == token {
			segments[n-1].End = end
			segments[n-1].Text += " " + w.Word
			continue
		}
		c := conf
		segments = append(segments, models.RawSegment{
			Speaker:    token,
			Text:       w.Word,
			Start:      start,
			End:        end,
			Confidence: &c,
		})
	}
	payload.Segments = segments
	if n := len(segments); n > 0 {
		payload.DurationSec = segments[n-1].End
	}
	return payload
}
