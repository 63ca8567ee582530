// Package analysis coordinates the QA pipeline: normalization,
// talk-time, sentiment and scoring, producing one immutable snapshot
// per pass.
//
// A snapshot is always recomputed wholesale. Manual corrections never
// patch individual fields; they re-derive the entire segment sequence
// and metrics record so the two can never disagree.
package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
	"github.com/SanjayR-26/speech-ai-sub001/internal/observability/metrics"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider"
	"github.com/SanjayR-26/speech-ai-sub001/internal/service/normalize"
	"github.com/SanjayR-26/speech-ai-sub001/internal/service/score"
	"github.com/SanjayR-26/speech-ai-sub001/internal/service/sentiment"
	"github.com/SanjayR-26/speech-ai-sub001/internal/service/talktime"
)

// Analyzer runs the full normalization and metrics pipeline. It is
// stateless between calls; concurrent use on disjoint inputs needs no
// locking.
type Analyzer struct {
	calc    *score.Calculator
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New builds an Analyzer computing clarity and score on the given
// scale with the given policy weights.
func New(scale models.ClarityScale, weights score.Weights, logger zerolog.Logger, m *metrics.Metrics) (*Analyzer, error) {
	calc, err := score.NewCalculator(scale, weights)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Analyzer{
		calc:    calc,
		logger:  logger.With().Str("component", "analyzer").Logger(),
		metrics: m,
	}, nil
}

// Analyze turns a provider payload into the call's first snapshot.
// An empty callID gets a generated UUID.
func (a *Analyzer) Analyze(callID string, p *provider.Payload) (*models.AnalysisSnapshot, error) {
	if callID == "" {
		callID = uuid.NewString()
	}
	snap := &models.AnalysisSnapshot{
		CallID:        callID,
		Version:       1,
		LanguageCode:  p.LanguageCode,
		DurationSec:   p.DurationSec,
		Text:          p.Text,
		Chapters:      p.Chapters,
		Entities:      p.Entities,
		ContentSafety: p.ContentSafety,
	}
	if err := a.compute(snap, p.Segments, nil); err != nil {
		return nil, err
	}
	return snap, nil
}

// ApplyCorrection re-derives the whole snapshot with segmentIndex
// forced to role. The override is layered on top of the automatic role
// table and carried forward on the snapshot, so later recomputations
// never remap that index automatically again.
func (a *Analyzer) ApplyCorrection(prev *models.AnalysisSnapshot, segmentIndex int, role models.Role) (*models.AnalysisSnapshot, error) {
	if role != models.RoleAgent && role != models.RoleCustomer && role != models.RoleUnresolved {
		return nil, fmt.Errorf("correction role %q is not a known role: %w", role, models.ErrMalformedInput)
	}
	if segmentIndex < 0 || segmentIndex >= len(prev.Segments) {
		return nil, fmt.Errorf("correction for segment %d of %d: %w",
			segmentIndex, len(prev.Segments), models.ErrSegmentIndexOutOfRange)
	}

	overrides := make(map[int]models.Role, len(prev.RoleOverrides)+1)
	for idx, r := range prev.RoleOverrides {
		overrides[idx] = r
	}
	overrides[segmentIndex] = role

	next := nextSnapshot(prev)
	if err := a.compute(next, normalize.FromNormalized(prev.Segments), overrides); err != nil {
		return nil, err
	}
	next.Warnings = carryMappingWarnings(prev.Warnings, next.Warnings)
	a.metrics.RecordCorrection()
	return next, nil
}

// carryMappingWarnings keeps speaker-mapping warnings from the original
// normalization on recomputed snapshots. Recomputation runs on resolved
// role labels, not the provider's raw tokens, so the ambiguity of the
// original input cannot be rediscovered and must be carried forward.
func carryMappingWarnings(prev, next []models.Warning) []models.Warning {
	for _, w := range prev {
		if w.Code != models.WarnAmbiguousSpeakerMapping {
			continue
		}
		present := false
		for _, n := range next {
			if n.Code == models.WarnAmbiguousSpeakerMapping {
				present = true
				break
			}
		}
		if !present {
			next = append(next, w)
		}
	}
	return next
}

// ReplaceSegments re-derives the whole snapshot from a caller-supplied
// replacement segment list, discarding previous overrides. Used for
// advanced corrections where an operator rewrites the transcript.
func (a *Analyzer) ReplaceSegments(prev *models.AnalysisSnapshot, raw []models.RawSegment) (*models.AnalysisSnapshot, error) {
	next := nextSnapshot(prev)
	if err := a.compute(next, raw, nil); err != nil {
		return nil, err
	}
	a.metrics.RecordCorrection()
	return next, nil
}

// nextSnapshot carries the call-level fields of prev into a fresh
// snapshot with the version bumped. Segments and metrics are left for
// compute to fill; they are never copied from the previous version.
func nextSnapshot(prev *models.AnalysisSnapshot) *models.AnalysisSnapshot {
	return &models.AnalysisSnapshot{
		CallID:        prev.CallID,
		Version:       prev.Version + 1,
		Provider:      prev.Provider,
		LanguageCode:  prev.LanguageCode,
		DurationSec:   prev.DurationSec,
		Text:          prev.Text,
		Chapters:      prev.Chapters,
		Entities:      prev.Entities,
		ContentSafety: prev.ContentSafety,
	}
}

// compute fills snap with the normalized sequence and metrics derived
// from raw. It either fully succeeds or leaves no partial result: snap
// is only populated after every component has run.
func (a *Analyzer) compute(snap *models.AnalysisSnapshot, raw []models.RawSegment, overrides map[int]models.Role) error {
	start := time.Now()
	log := a.logger.With().Str("callId", snap.CallID).Int("version", snap.Version).Logger()

	norm, err := normalize.Normalize(raw, overrides)
	if err != nil {
		a.metrics.RecordAnalysisFailure(failureReason(err))
		log.Warn().Err(err).Msg("Normalization rejected transcript")
		return err
	}

	talk := talktime.Compute(norm.Segments, snap.DurationSec)
	senti := sentiment.Aggregate(norm.Segments)

	clarity := a.calc.Clarity(norm.Segments)
	overall, err := a.calc.Overall(clarity, talk.SpeakingRateWPM, senti.Overall)
	if err != nil {
		a.metrics.RecordAnalysisFailure(failureReason(err))
		log.Error().Err(err).Msg("Score computation failed")
		return err
	}

	snap.Segments = norm.Segments
	snap.Warnings = norm.Warnings
	snap.RoleOverrides = overrides
	snap.ComputedAt = time.Now().UTC()
	snap.Metrics = models.TranscriptionMetrics{
		WordCount:           talk.WordCount,
		SpeakingRateWPM:     talk.SpeakingRateWPM,
		Clarity:             clarity,
		ClarityScale:        a.calc.Scale(),
		OverallScore:        overall,
		AgentTalkTimeSec:    talk.AgentTalkTimeSec,
		CustomerTalkTimeSec: talk.CustomerTalkTimeSec,
		SilenceDurationSec:  talk.SilenceDurationSec,
		SentimentOverall:    senti.Overall,
		SentimentBySpeaker: models.SentimentBySpeaker{
			Agent:    senti.Agent,
			Customer: senti.Customer,
		},
	}

	overlaps, unresolved := 0, 0
	for _, s := range snap.Segments {
		if s.Overlap {
			overlaps++
		}
		if !s.Role.Resolved() {
			unresolved++
		}
	}
	for _, w := range snap.Warnings {
		a.metrics.RecordWarning(w.Code)
	}
	a.metrics.RecordAnalysis(time.Since(start).Seconds(), len(snap.Segments), overlaps, unresolved)

	log.Info().
		Int("segments", len(snap.Segments)).
		Int("overlaps", overlaps).
		Int("warnings", len(snap.Warnings)).
		Msg("Call analysis computed")
	return nil
}

// failureReason maps an analysis error onto a metrics label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, models.ErrSegmentIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, models.ErrInconsistentScale):
		return "inconsistent_scale"
	case errors.Is(err, models.ErrUnknownScale):
		return "unknown_scale"
	default:
		return "internal"
	}
}
