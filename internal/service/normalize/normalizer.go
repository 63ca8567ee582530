// Package normalize converts raw diarized segments into role-labeled
// segments and flags talk-over between the two parties.
//
// The raw-token -> role mapping is a single per-call decision: every
// segment sharing a raw speaker token receives the same role unless a
// manual correction overrides that segment's index. Overlap flags are
// always recomputed over the whole sequence, never patched.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

// Result is the output of one normalization pass.
type Result struct {
	Segments []models.NormalizedSegment
	Warnings []models.Warning
}

// Normalize maps raw diarized segments onto Agent/Customer roles and
// populates overlap flags. Overrides are index-keyed manual corrections
// into the normalized (start-sorted) sequence, applied on top of the
// automatic role table.
//
// The whole transcript is rejected with models.ErrMalformedInput when
// any segment has end < start, a negative or non-finite timestamp, or
// empty text. An empty input yields an empty result, not an error.
func Normalize(raw []models.RawSegment, overrides map[int]models.Role) (*Result, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	sorted := make([]models.RawSegment, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	table, warnings := roleTable(sorted)

	segments := make([]models.NormalizedSegment, len(sorted))
	for i, s := range sorted {
		segments[i] = models.NormalizedSegment{
			Role:       table[s.Speaker],
			Text:       s.Text,
			Start:      s.Start,
			End:        s.End,
			Confidence: s.Confidence,
			Sentiment:  s.Sentiment,
		}
	}

	for idx, role := range overrides {
		if idx < 0 || idx >= len(segments) {
			return nil, fmt.Errorf("correction for segment %d: %w", idx, models.ErrSegmentIndexOutOfRange)
		}
		segments[idx].Role = role
	}

	computeOverlaps(segments)

	warnings = append(warnings, sequenceWarnings(segments)...)
	return &Result{Segments: segments, Warnings: warnings}, nil
}

// FromNormalized converts a normalized sequence back into raw segments,
// using the role labels as speaker tokens. Role labels are canonical
// tokens for Normalize, so re-normalizing the output reproduces the same
// role assignment. Used when recomputing a call after a correction.
func FromNormalized(segments []models.NormalizedSegment) []models.RawSegment {
	raw := make([]models.RawSegment, len(segments))
	for i, s := range segments {
		raw[i] = models.RawSegment{
			Speaker:    string(s.Role),
			Text:       s.Text,
			Start:      s.Start,
			End:        s.End,
			Confidence: s.Confidence,
			Sentiment:  s.Sentiment,
		}
	}
	return raw
}

func validate(raw []models.RawSegment) error {
	for i, s := range raw {
		if math.IsNaN(s.Start) || math.IsNaN(s.End) || math.IsInf(s.Start, 0) || math.IsInf(s.End, 0) {
			return fmt.Errorf("segment %d: non-finite timestamps: %w", i, models.ErrMalformedInput)
		}
		if s.Start < 0 {
			return fmt.Errorf("segment %d: negative start %.3f: %w", i, s.Start, models.ErrMalformedInput)
		}
		if s.End < s.Start {
			return fmt.Errorf("segment %d: end %.3f before start %.3f: %w", i, s.End, s.Start, models.ErrMalformedInput)
		}
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("segment %d: missing text: %w", i, models.ErrMalformedInput)
		}
	}
	return nil
}

// roleTable decides the raw-token -> role mapping once for the call.
//
// Tokens that already are role labels (from a previously normalized
// sequence) map to themselves, which makes normalization idempotent.
// Otherwise, the two tokens with the greatest aggregate talk time are
// kept and the one that speaks first becomes Agent; any further tokens
// resolve to RoleUnresolved and raise a data-quality warning.
func roleTable(sorted []models.RawSegment) (map[string]models.Role, []models.Warning) {
	type tokenStats struct {
		token    string
		talkTime float64
		firstIdx int
	}

	var order []string
	stats := make(map[string]*tokenStats)
	for i, s := range sorted {
		st, ok := stats[s.Speaker]
		if !ok {
			st = &tokenStats{token: s.Speaker, firstIdx: i}
			stats[s.Speaker] = st
			order = append(order, s.Speaker)
		}
		st.talkTime += s.End - s.Start
	}

	table := make(map[string]models.Role, len(order))
	if len(order) == 0 {
		return table, nil
	}

	if canonical(order) {
		for _, tok := range order {
			table[tok] = canonicalRole(tok)
		}
		return table, nil
	}

	ranked := make([]*tokenStats, 0, len(order))
	for _, tok := range order {
		ranked = append(ranked, stats[tok])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].talkTime != ranked[j].talkTime {
			return ranked[i].talkTime > ranked[j].talkTime
		}
		return ranked[i].firstIdx < ranked[j].firstIdx
	})

	var warnings []models.Warning
	for _, tok := range order {
		table[tok] = models.RoleUnresolved
	}

	if len(ranked) == 1 {
		// Single-speaker call: the first (only) voice is assumed
		// to be the agent.
		table[ranked[0].token] = models.RoleAgent
		return table, nil
	}

	first, second := ranked[0], ranked[1]
	if second.firstIdx < first.firstIdx {
		first, second = second, first
	}
	table[first.token] = models.RoleAgent
	table[second.token] = models.RoleCustomer

	if len(ranked) > 2 {
		extra := make([]string, 0, len(ranked)-2)
		for _, st := range ranked[2:] {
			extra = append(extra, st.token)
		}
		warnings = append(warnings, models.Warnf(models.WarnAmbiguousSpeakerMapping,
			"more than two speaker tokens; %v left unresolved", extra))
	}
	return table, warnings
}

func canonical(tokens []string) bool {
	for _, tok := range tokens {
		if canonicalRole(tok) == "" {
			return false
		}
	}
	return true
}

func canonicalRole(token string) models.Role {
	switch strings.ToLower(token) {
	case "agent":
		return models.RoleAgent
	case "customer":
		return models.RoleCustomer
	case "unresolved":
		return models.RoleUnresolved
	default:
		return ""
	}
}

// computeOverlaps flags every segment whose interval strictly intersects
// a segment from the other role: start_i < end_j and start_j < end_i.
// A zero-width meeting at a shared boundary point is not an overlap,
// but a zero-duration segment strictly inside the other interval is.
// When several candidates intersect one segment, the role with the
// largest intersection wins, earliest start on ties.
func computeOverlaps(segments []models.NormalizedSegment) {
	type candidate struct {
		set      bool
		duration float64
		start    float64
		role     models.Role
	}
	best := make([]candidate, len(segments))

	consider := func(c *candidate, duration, start float64, role models.Role) {
		if !c.set || duration > c.duration || (duration == c.duration && start < c.start) {
			*c = candidate{set: true, duration: duration, start: start, role: role}
		}
	}

	for i := range segments {
		for j := i + 1; j < len(segments); j++ {
			if segments[j].Start >= segments[i].End {
				break
			}
			a, b := &segments[i], &segments[j]
			if !a.Role.Resolved() || !b.Role.Resolved() || a.Role == b.Role {
				continue
			}
			if a.Start >= b.End || b.Start >= a.End {
				continue
			}
			lo := math.Max(a.Start, b.Start)
			hi := math.Min(a.End, b.End)
			consider(&best[i], hi-lo, b.Start, b.Role)
			consider(&best[j], hi-lo, a.Start, a.Role)
		}
	}

	for i := range segments {
		segments[i].Overlap = false
		segments[i].OverlapFrom = nil
		if best[i].set {
			role := best[i].role
			segments[i].Overlap = true
			segments[i].OverlapFrom = &role
		}
	}
}

func sequenceWarnings(segments []models.NormalizedSegment) []models.Warning {
	var warnings []models.Warning
	unresolved, zeroDuration := 0, 0
	for _, s := range segments {
		if !s.Role.Resolved() {
			unresolved++
		}
		if s.Duration() == 0 {
			zeroDuration++
		}
	}
	if unresolved > 0 {
		warnings = append(warnings, models.Warnf(models.WarnUnresolvedSegments,
			"%d segment(s) have an unresolved role", unresolved))
	}
	if zeroDuration > 0 {
		warnings = append(warnings, models.Warnf(models.WarnZeroDurationSegments,
			"%d segment(s) have zero duration and are excluded from talk time", zeroDuration))
	}
	return warnings
}
