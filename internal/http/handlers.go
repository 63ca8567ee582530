package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/SanjayR-26/speech-ai-sub001/internal/events"
	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
	"github.com/SanjayR-26/speech-ai-sub001/internal/observability/metrics"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider"
	"github.com/SanjayR-26/speech-ai-sub001/internal/service/analysis"
	"github.com/SanjayR-26/speech-ai-sub001/internal/store"
)

// Handlers wires the analysis pipeline, provider, store and publisher
// into the HTTP API.
type Handlers struct {
	Analyzer  *analysis.Analyzer
	Provider  provider.Provider
	Store     store.Store
	Publisher *events.Publisher
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

type createCallRequest struct {
	CallID   string `json:"call_id"`
	AudioURL string `json:"audio_url"`
}

type analyzeInlineRequest struct {
	CallID        string              `json:"call_id"`
	Text          string              `json:"text"`
	Segments      []models.RawSegment `json:"segments"`
	DurationSec   float64             `json:"duration_sec"`
	LanguageCode  string              `json:"language_code"`
	Chapters      json.RawMessage     `json:"chapters,omitempty"`
	Entities      json.RawMessage     `json:"entities,omitempty"`
	ContentSafety json.RawMessage     `json:"content_safety,omitempty"`
}

type correctionRequest struct {
	SegmentIndex *int                `json:"segment_index,omitempty"`
	Role         models.Role         `json:"role,omitempty"`
	Segments     []models.RawSegment `json:"segments,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateCall submits the recording to the transcription provider and
// analyzes the resulting transcript.
func (h *Handlers) CreateCall(w http.ResponseWriter, r *http.Request) {
	var req createCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.AudioURL == "" {
		h.respondError(w, http.StatusBadRequest, errors.New("audio_url is required"))
		return
	}

	start := time.Now()
	payload, err := h.Provider.Transcribe(r.Context(), req.AudioURL)
	h.Metrics.RecordProviderRequest(h.Provider.Name(), err, time.Since(start).Seconds())
	if err != nil {
		h.Logger.Error().Err(err).Str("provider", h.Provider.Name()).Msg("Provider transcription failed")
		h.respondError(w, http.StatusBadGateway, err)
		return
	}

	snap, err := h.Analyzer.Analyze(req.CallID, payload)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}
	snap.Provider = h.Provider.Name()
	h.persistAndRespond(w, r, snap, http.StatusCreated)
}

// AnalyzeInline analyzes a provider payload supplied directly in the
// request body, bypassing the provider round trip.
func (h *Handlers) AnalyzeInline(w http.ResponseWriter, r *http.Request) {
	var req analyzeInlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := h.Analyzer.Analyze(req.CallID, &provider.Payload{
		Text:          req.Text,
		Segments:      req.Segments,
		DurationSec:   req.DurationSec,
		LanguageCode:  req.LanguageCode,
		Chapters:      req.Chapters,
		Entities:      req.Entities,
		ContentSafety: req.ContentSafety,
	})
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}
	h.persistAndRespond(w, r, snap, http.StatusCreated)
}

// GetTranscript returns the normalized segment sequence for a call.
func (h *Handlers) GetTranscript(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"call_id":  snap.CallID,
		"version":  snap.Version,
		"segments": snap.Segments,
		"warnings": snap.Warnings,
	})
}

// GetMetrics returns the QA metrics record for a call.
func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"call_id": snap.CallID,
		"version": snap.Version,
		"metrics": snap.Metrics,
	})
}

// ApplyCorrection applies a manual speaker correction - either a single
// index/role fix or a full replacement segment list - and recomputes
// the whole snapshot.
func (h *Handlers) ApplyCorrection(w http.ResponseWriter, r *http.Request) {
	prev, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}

	var (
		snap *models.AnalysisSnapshot
		err  error
	)
	switch {
	case len(req.Segments) > 0:
		snap, err = h.Analyzer.ReplaceSegments(prev, req.Segments)
	case req.SegmentIndex != nil:
		snap, err = h.Analyzer.ApplyCorrection(prev, *req.SegmentIndex, req.Role)
	default:
		h.respondError(w, http.StatusBadRequest,
			errors.New("correction requires segment_index and role, or a replacement segments list"))
		return
	}
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}
	h.persistAndRespond(w, r, snap, http.StatusOK)
}

// persistAndRespond saves the snapshot, publishes it, and writes it
// back to the caller. Persist failure discards the snapshot entirely;
// prior state remains untouched.
func (h *Handlers) persistAndRespond(w http.ResponseWriter, r *http.Request, snap *models.AnalysisSnapshot, status int) {
	if err := h.Store.Save(r.Context(), snap); err != nil {
		h.Logger.Error().Err(err).Str("callId", snap.CallID).Msg("Failed to persist snapshot")
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if err := h.Publisher.PublishSnapshot(r.Context(), snap); err != nil {
		// Persisted state is authoritative; publish failure is logged
		// and reported by the Kafka metrics, not to the caller.
		h.Logger.Error().Err(err).Str("callId", snap.CallID).Msg("Failed to publish snapshot events")
	}
	respondJSON(w, status, snap)
}

func (h *Handlers) loadSnapshot(w http.ResponseWriter, r *http.Request) (*models.AnalysisSnapshot, bool) {
	callID := chi.URLParam(r, "callID")
	snap, err := h.Store.Get(r.Context(), callID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, err)
		} else {
			h.respondError(w, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return snap, true
}

// respondAnalysisError maps analysis errors onto HTTP statuses.
func (h *Handlers) respondAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrMalformedInput):
		h.respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, models.ErrSegmentIndexOutOfRange):
		h.respondError(w, http.StatusBadRequest, err)
	default:
		h.respondError(w, http.StatusInternalServerError, err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
