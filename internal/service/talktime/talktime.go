// Package talktime derives speaking-duration and pacing figures from a
// normalized segment sequence.
package talktime

import (
	"sort"
	"strings"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

// Result holds the talk-time figures for one call.
type Result struct {
	AgentTalkTimeSec    float64
	CustomerTalkTimeSec float64
	SilenceDurationSec  float64
	WordCount           int
	// SpeakingRateWPM is nil when total speaking time is zero; the rate
	// is undefined there, never a divide-by-zero or a sentinel.
	SpeakingRateWPM *float64
}

// Compute returns per-role talk time, silence, word count and speaking
// rate for the sequence. Silence is total duration minus the merged
// union of Agent and Customer speech intervals, so overlapping speech
// is never double-counted against it.
func Compute(segments []models.NormalizedSegment, totalDurationSec float64) Result {
	var res Result

	intervals := make([]interval, 0, len(segments))
	for _, s := range segments {
		res.WordCount += len(strings.Fields(s.Text))

		d := s.Duration()
		if d <= 0 {
			continue
		}
		switch s.Role {
		case models.RoleAgent:
			res.AgentTalkTimeSec += d
		case models.RoleCustomer:
			res.CustomerTalkTimeSec += d
		default:
			continue
		}
		intervals = append(intervals, interval{start: s.Start, end: s.End})
	}

	speech := unionDuration(intervals)
	res.SilenceDurationSec = totalDurationSec - speech
	if res.SilenceDurationSec < 0 {
		res.SilenceDurationSec = 0
	}

	talkMinutes := (res.AgentTalkTimeSec + res.CustomerTalkTimeSec) / 60
	if talkMinutes > 0 {
		rate := float64(res.WordCount) / talkMinutes
		res.SpeakingRateWPM = &rate
	}
	return res
}

type interval struct {
	start, end float64
}

// unionDuration merges overlapping or adjacent intervals and sums the
// merged lengths. A naive per-interval sum would double-count
// overlapping speech and could drive silence negative.
func unionDuration(intervals []interval) float64 {
	if len(intervals) == 0 {
		return 0
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	total := 0.0
	cur := intervals[0]
	for _, iv := range intervals[1:] {
		if iv.start <= cur.end {
			if iv.end > cur.end {
				cur.end = iv.end
			}
			continue
		}
		total += cur.end - cur.start
		cur = iv
	}
	total += cur.end - cur.start
	return total
}
