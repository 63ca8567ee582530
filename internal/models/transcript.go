// Package models defines the data structures for call transcripts and
// QA analysis results.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the semantic speaker label assigned during normalization, as
// opposed to the provider's raw diarization token.
type Role string

const (
	// RoleAgent is the call-center agent side of the conversation.
	RoleAgent Role = "Agent"
	// RoleCustomer is the customer side of the conversation.
	RoleCustomer Role = "Customer"
	// RoleUnresolved marks segments whose raw token could not be mapped
	// onto the two-party Agent/Customer model.
	RoleUnresolved Role = "Unresolved"
)

// Resolved reports whether the role is one of the two semantic parties.
func (r Role) Resolved() bool {
	return r == RoleAgent || r == RoleCustomer
}

// SentimentLabel is a provider-supplied per-segment sentiment class.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
	SentimentNegative SentimentLabel = "NEGATIVE"
)

// RawSegment is a single diarized utterance as returned by the
// speech-intelligence provider. Speaker is the provider's free-form
// diarization token (e.g. "A", "B", "spk_0"). Start and End are seconds
// from the beginning of the recording.
type RawSegment struct {
	Speaker    string          `json:"speaker"`
	Text       string          `json:"text"`
	Start      float64         `json:"start"`
	End        float64         `json:"end"`
	Confidence *float64        `json:"confidence,omitempty"`
	Sentiment  *SentimentLabel `json:"sentiment,omitempty"`
}

// NormalizedSegment is a RawSegment with its speaker token resolved to a
// semantic role and talk-over flags populated. OverlapFrom names the
// role whose segment intersects this one, when Overlap is set.
type NormalizedSegment struct {
	Role        Role            `json:"role"`
	Text        string          `json:"text"`
	Start       float64         `json:"start"`
	End         float64         `json:"end"`
	Confidence  *float64        `json:"confidence,omitempty"`
	Sentiment   *SentimentLabel `json:"sentiment,omitempty"`
	Overlap     bool            `json:"overlap"`
	OverlapFrom *Role           `json:"overlap_from,omitempty"`
}

// Duration returns the segment length in seconds.
func (s NormalizedSegment) Duration() float64 {
	return s.End - s.Start
}

// ClarityScale declares the numeric range clarity and score values are
// expressed in. A metrics record carries exactly one scale; values on
// different scales must never be combined.
type ClarityScale string

const (
	// ScaleUnit expresses clarity in [0, 1].
	ScaleUnit ClarityScale = "unit"
	// ScalePercent expresses clarity in [0, 100].
	ScalePercent ClarityScale = "percent"
)

// Valid reports whether the scale is one of the declared ranges.
func (c ClarityScale) Valid() bool {
	return c == ScaleUnit || c == ScalePercent
}

// Max returns the upper bound of the scale.
func (c ClarityScale) Max() float64 {
	if c == ScalePercent {
		return 100
	}
	return 1
}

// SentimentBySpeaker is the per-role sentiment rollup. A nil entry
// means that role had no sentiment-bearing segments; callers must treat
// nil as insufficient data, not as NEUTRAL.
type SentimentBySpeaker struct {
	Agent    *SentimentLabel `json:"agent"`
	Customer *SentimentLabel `json:"customer"`
}

// TranscriptionMetrics is the aggregate QA record derived from one
// normalized segment sequence. Pointer-typed fields are explicit nulls
// when their denominator is undefined, never a sentinel value.
type TranscriptionMetrics struct {
	WordCount           int                `json:"word_count"`
	SpeakingRateWPM     *float64           `json:"speaking_rate_wpm"`
	Clarity             *float64           `json:"clarity"`
	ClarityScale        ClarityScale       `json:"clarity_scale"`
	OverallScore        *float64           `json:"overall_score"`
	AgentTalkTimeSec    float64            `json:"agent_talk_time_sec"`
	CustomerTalkTimeSec float64            `json:"customer_talk_time_sec"`
	SilenceDurationSec  float64            `json:"silence_duration_sec"`
	SentimentOverall    *SentimentLabel    `json:"sentiment_overall"`
	SentimentBySpeaker  SentimentBySpeaker `json:"sentiment_by_speaker"`
}

// Warning codes surfaced on a snapshot as data-quality conditions.
const (
	WarnAmbiguousSpeakerMapping = "ambiguous_speaker_mapping"
	WarnUnresolvedSegments      = "unresolved_segments"
	WarnZeroDurationSegments    = "zero_duration_segments"
)

// Warning is a non-fatal data-quality condition raised during analysis.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warnf builds a Warning with a formatted message.
func Warnf(code, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AnalysisSnapshot is the versioned unit of derived state for one call:
// the normalized transcript, its metrics, and any warnings, produced
// and replaced as a whole. Snapshots are immutable once built; a
// correction yields a new snapshot with Version incremented.
//
// Chapters, Entities and ContentSafety are provider blocks carried
// through unmodified.
type AnalysisSnapshot struct {
	CallID        string               `json:"call_id"`
	Version       int                  `json:"version"`
	Provider      string               `json:"provider,omitempty"`
	LanguageCode  string               `json:"language_code,omitempty"`
	DurationSec   float64              `json:"duration_sec"`
	Text          string               `json:"text,omitempty"`
	Segments      []NormalizedSegment  `json:"segments"`
	Metrics       TranscriptionMetrics `json:"metrics"`
	Warnings      []Warning            `json:"warnings,omitempty"`
	RoleOverrides map[int]Role         `json:"role_overrides,omitempty"`
	Chapters      json.RawMessage      `json:"chapters,omitempty"`
	Entities      json.RawMessage      `json:"entities,omitempty"`
	ContentSafety json.RawMessage      `json:"content_safety,omitempty"`
	ComputedAt    time.Time            `json:"computed_at"`
}
