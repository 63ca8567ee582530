// Package score derives the clarity proxy and the overall QA score
// from transcription confidence, pacing and sentiment.
package score

import (
	"fmt"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

// Weights are the business-policy parameters of the overall score. The
// component weights are relative; the score itself stays bounded to
// [0, 100] regardless of their values.
type Weights struct {
	Clarity   float64
	Pacing    float64
	Sentiment float64

	// Speaking-rate band considered ideal for call-center speech.
	// Inside the band the pacing component is 1; it falls off linearly
	// to 0 at zero and at RateCeilingWPM.
	IdealRateLowWPM  float64
	IdealRateHighWPM float64
	RateCeilingWPM   float64
}

// DefaultWeights returns the stock scoring policy: clarity dominates,
// then pacing, then sentiment, with a 110-170 wpm ideal band.
func DefaultWeights() Weights {
	return Weights{
		Clarity:          0.5,
		Pacing:           0.3,
		Sentiment:        0.2,
		IdealRateLowWPM:  110,
		IdealRateHighWPM: 170,
		RateCeilingWPM:   300,
	}
}

// Calculator computes clarity and overall score on one declared scale.
// A calculator never mixes scales: clarity values outside the declared
// range are rejected as models.ErrInconsistentScale rather than
// silently rescaled.
type Calculator struct {
	scale   models.ClarityScale
	weights Weights
}

// NewCalculator builds a calculator for the given scale and policy.
func NewCalculator(scale models.ClarityScale, weights Weights) (*Calculator, error) {
	if !scale.Valid() {
		return nil, fmt.Errorf("scale %q: %w", scale, models.ErrUnknownScale)
	}
	return &Calculator{scale: scale, weights: weights}, nil
}

// Scale returns the declared clarity scale.
func (c *Calculator) Scale() models.ClarityScale {
	return c.scale
}

// Clarity returns the mean per-segment confidence expressed on the
// calculator's scale, or nil when no segment carries a confidence.
// Provider confidences are expected in [0, 1].
func (c *Calculator) Clarity(segments []models.NormalizedSegment) *float64 {
	sum, n := 0.0, 0
	for _, s := range segments {
		if s.Confidence == nil {
			continue
		}
		sum += *s.Confidence
		n++
	}
	if n == 0 {
		return nil
	}
	clarity := sum / float64(n) * c.scale.Max()
	return &clarity
}

// Overall combines clarity, speaking-rate proximity to the ideal band,
// and sentiment polarity into a single score in [0, 100].
//
// The score is defined exactly when clarity is defined: a nil speaking
// rate or sentiment contributes a neutral midpoint instead of aborting
// the computation. The score is monotonic non-decreasing in clarity
// with the other inputs held fixed.
func (c *Calculator) Overall(clarity *float64, rateWPM *float64, overall *models.SentimentLabel) (*float64, error) {
	if clarity == nil {
		return nil, nil
	}
	if *clarity < 0 || *clarity > c.scale.Max() {
		return nil, fmt.Errorf("clarity %.3f outside declared %q scale: %w",
			*clarity, c.scale, models.ErrInconsistentScale)
	}

	clarityUnit := *clarity / c.scale.Max()
	combined := c.weights.Clarity*clarityUnit +
		c.weights.Pacing*c.pacing(rateWPM) +
		c.weights.Sentiment*polarity(overall)

	totalWeight := c.weights.Clarity + c.weights.Pacing + c.weights.Sentiment
	if totalWeight == 0 {
		totalWeight = 1
	}
	score := clamp(combined/totalWeight*100, 0, 100)
	return &score, nil
}

// pacing maps the speaking rate onto [0, 1] by proximity to the ideal
// band. Undefined rate contributes the neutral midpoint.
func (c *Calculator) pacing(rateWPM *float64) float64 {
	if rateWPM == nil {
		return 0.5
	}
	r := *rateWPM
	switch {
	case r >= c.weights.IdealRateLowWPM && r <= c.weights.IdealRateHighWPM:
		return 1
	case r < c.weights.IdealRateLowWPM:
		if c.weights.IdealRateLowWPM == 0 {
			return 1
		}
		return clamp(r/c.weights.IdealRateLowWPM, 0, 1)
	default:
		span := c.weights.RateCeilingWPM - c.weights.IdealRateHighWPM
		if span <= 0 {
			return 0
		}
		return clamp(1-(r-c.weights.IdealRateHighWPM)/span, 0, 1)
	}
}

func polarity(label *models.SentimentLabel) float64 {
	if label == nil {
		return 0.5
	}
	switch *label {
	case models.SentimentPositive:
		return 1
	case models.SentimentNegative:
		return 0
	default:
		return 0.5
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
