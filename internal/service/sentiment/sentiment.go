// Package sentiment rolls per-segment sentiment labels up into overall
// and per-role summaries.
package sentiment

import "github.com/SanjayR-26/speech-ai-sub001/internal/models"

// Result holds the sentiment rollup for one call. Nil entries mean
// insufficient data (no sentiment-bearing segments for that scope) and
// must not be coerced to NEUTRAL by callers.
type Result struct {
	Overall  *models.SentimentLabel
	Agent    *models.SentimentLabel
	Customer *models.SentimentLabel
}

// Aggregate computes duration-weighted majority votes over the
// sequence: one across all segments and one per role. Longer segments
// count more; ties break in favor of NEUTRAL.
func Aggregate(segments []models.NormalizedSegment) Result {
	return Result{
		Overall:  vote(segments, func(models.NormalizedSegment) bool { return true }),
		Agent:    vote(segments, byRole(models.RoleAgent)),
		Customer: vote(segments, byRole(models.RoleCustomer)),
	}
}

func byRole(role models.Role) func(models.NormalizedSegment) bool {
	return func(s models.NormalizedSegment) bool { return s.Role == role }
}

// vote tallies duration-weighted sentiment over the segments accepted
// by the filter. When every sentiment-bearing segment has zero duration
// the vote falls back to plain counts, so the labels still decide the
// outcome; nil is returned only when no labels exist at all.
func vote(segments []models.NormalizedSegment, include func(models.NormalizedSegment) bool) *models.SentimentLabel {
	weights := make(map[models.SentimentLabel]float64, 3)
	counts := make(map[models.SentimentLabel]int, 3)
	bearing := 0
	for _, s := range segments {
		if !include(s) || s.Sentiment == nil {
			continue
		}
		bearing++
		weights[*s.Sentiment] += s.Duration()
		counts[*s.Sentiment]++
	}
	if bearing == 0 {
		return nil
	}

	totalWeight := 0.0
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight == 0 {
		weights = make(map[models.SentimentLabel]float64, len(counts))
		for label, n := range counts {
			weights[label] = float64(n)
		}
	}

	var winner models.SentimentLabel
	var best float64
	tied := false
	for _, label := range []models.SentimentLabel{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative} {
		w, ok := weights[label]
		if !ok {
			continue
		}
		switch {
		case winner == "" || w > best:
			winner, best, tied = label, w, false
		case w == best:
			tied = true
		}
	}
	if tied {
		neutral := models.SentimentNeutral
		return &neutral
	}
	return &winner
}
