// Package assemblyai provides an AssemblyAI transcription client.
// It submits a recording by URL, polls the transcript resource until it
// completes, and maps utterances and sentiment results onto the
// provider-neutral payload.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider"
)

const defaultBaseURL = "https://api.assemblyai.com"

// Config holds the AssemblyAI client configuration.
type Config struct {
	APIKey       string
	BaseURL      string        // defaults to the public API
	PollInterval time.Duration // defaults to 3s
	HTTPClient   *http.Client
}

// Client implements provider.Provider against the AssemblyAI v2 API.
type Client struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	httpc        *http.Client
	logger       zerolog.Logger
}

// New creates an AssemblyAI client.
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		pollInterval: cfg.PollInterval,
		httpc:        cfg.HTTPClient,
		logger:       logger.With().Str("component", "assemblyai").Logger(),
	}
}

// Name identifies the provider.
func (c *Client) Name() string { return "assemblyai" }

// transcriptRequest is the submit body. Speaker labels and sentiment
// analysis are always requested; chapters, entities and content safety
// are requested for passthrough.
type transcriptRequest struct {
	AudioURL          string `json:"audio_url"`
	SpeakerLabels     bool   `json:"speaker_labels"`
	SentimentAnalysis bool   `json:"sentiment_analysis"`
	AutoChapters      bool   `json:"auto_chapters"`
	EntityDetection   bool   `json:"entity_detection"`
	ContentSafety     bool   `json:"content_safety"`
}

type utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	StartMs    int64   `json:"start"`
	EndMs      int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

type sentimentResult struct {
	Text      string `json:"text"`
	StartMs   int64  `json:"start"`
	EndMs     int64  `json:"end"`
	Sentiment string `json:"sentiment"`
	Speaker   string `json:"speaker"`
}

type transcriptResponse struct {
	ID                  string            `json:"id"`
	Status              string            `json:"status"`
	Error               string            `json:"error"`
	Text                string            `json:"text"`
	LanguageCode        string            `json:"language_code"`
	AudioDurationSec    float64           `json:"audio_duration"`
	Utterances          []utterance       `json:"utterances"`
	SentimentResults    []sentimentResult `json:"sentiment_analysis_results"`
	Chapters            json.RawMessage   `json:"chapters"`
	Entities            json.RawMessage   `json:"entities"`
	ContentSafetyLabels json.RawMessage   `json:"content_safety_labels"`
}

// Transcribe submits the recording and polls until the transcript
// reaches a terminal status or ctx is done.
func (c *Client) Transcribe(ctx context.Context, audioURL string) (*provider.Payload, error) {
	submitted, err := c.submit(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("transcriptId", submitted.ID).Msg("Transcript submitted")

	for {
		tr, err := c.fetch(ctx, submitted.ID)
		if err != nil {
			return nil, err
		}
		switch tr.Status {
		case "completed":
			return c.toPayload(tr), nil
		case "error":
			return nil, fmt.Errorf("assemblyai transcript %s failed: %s", tr.ID, tr.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) submit(ctx context.Context, audioURL string) (*transcriptResponse, error) {
	body, err := json.Marshal(transcriptRequest{
		AudioURL:          audioURL,
		SpeakerLabels:     true,
		SentimentAnalysis: true,
		AutoChapters:      true,
		EntityDetection:   true,
		ContentSafety:     true,
	})
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/v2/transcript", bytes.NewReader(body))
}

func (c *Client) fetch(ctx context.Context, id string) (*transcriptResponse, error) {
	return c.do(ctx, http.MethodGet, "/v2/transcript/"+id, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("assemblyai %s %s: %s: %s", method, path, resp.Status, string(msg))
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("assemblyai decode: %w", err)
	}
	return &tr, nil
}

// toPayload maps the completed transcript onto the provider-neutral
// payload: millisecond utterance times become seconds, and each
// utterance picks up the sentiment result whose window and speaker
// cover its midpoint.
func (c *Client) toPayload(tr *transcriptResponse) *provider.Payload {
	segments := make([]models.RawSegment, 0, len(tr.Utterances))
	for _, u := range tr.Utterances {
		conf := u.Confidence
		seg := models.RawSegment{
			Speaker:    u.Speaker,
			Text:       u.Text,
			Start:      float64(u.StartMs) / 1000,
			End:        float64(u.EndMs) / 1000,
			Confidence: &conf,
		}
		if label := matchSentiment(tr.SentimentResults, u); label != nil {
			seg.Sentiment = label
		}
		segments = append(segments, seg)
	}

	return &provider.Payload{
		Text:          tr.Text,
		Segments:      segments,
		DurationSec:   tr.AudioDurationSec,
		LanguageCode:  tr.LanguageCode,
		Chapters:      tr.Chapters,
		Entities:      tr.Entities,
		ContentSafety: tr.ContentSafetyLabels,
	}
}

func matchSentiment(results []sentimentResult, u utterance) *models.SentimentLabel {
	mid := (u.StartMs + u.EndMs) / 2
	for _, r := range results {
		if r.Speaker != u.Speaker {
			continue
		}
		if mid >= r.StartMs && mid < r.EndMs {
			label := models.SentimentLabel(r.Sentiment)
			return &label
		}
	}
	return nil
}
