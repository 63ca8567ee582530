package score

import (
	"errors"
	"math"
	"testing"

	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
)

func f(v float64) *float64 { return &v }

func label(l models.SentimentLabel) *models.SentimentLabel { return &l }

func TestNewCalculator_RejectsUnknownScale(t *testing.T) {
	_, err := NewCalculator("furlongs", DefaultWeights())
	if !errors.Is(err, models.ErrUnknownScale) {
		t.Errorf("expected ErrUnknownScale, got %v", err)
	}
}

func TestClarity_MeanConfidenceOnScale(t *testing.T) {
	segments := []models.NormalizedSegment{
		{Role: models.RoleAgent, Text: "a", Start: 0, End: 1, Confidence: f(0.8)},
		{Role: models.RoleCustomer, Text: "b", Start: 1, End: 2, Confidence: f(0.6)},
		{Role: models.RoleAgent, Text: "c", Start: 2, End: 3}, // no confidence
	}

	unit, err := NewCalculator(models.ScaleUnit, DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := unit.Clarity(segments)
	if got == nil || math.Abs(*got-0.7) > 1e-9 {
		t.Errorf("unit scale: expected 0.7, got %v", got)
	}

	percent, err := NewCalculator(models.ScalePercent, DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got = percent.Clarity(segments)
	if got == nil || math.Abs(*got-70) > 1e-9 {
		t.Errorf("percent scale: expected 70, got %v", got)
	}
}

func TestClarity_NilWithoutConfidences(t *testing.T) {
	calc, _ := NewCalculator(models.ScalePercent, DefaultWeights())
	segments := []models.NormalizedSegment{
		{Role: models.RoleAgent, Text: "a", Start: 0, End: 1},
	}
	if got := calc.Clarity(segments); got != nil {
		t.Errorf("expected nil clarity, got %v", *got)
	}
}

func TestOverall_NilClarityMeansNilScore(t *testing.T) {
	calc, _ := NewCalculator(models.ScalePercent, DefaultWeights())
	got, err := calc.Overall(nil, f(140), label(models.SentimentPositive))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("score must be nil when clarity is nil, got %v", *got)
	}
}

func TestOverall_DefinedWheneverClarityIs(t *testing.T) {
	calc, _ := NewCalculator(models.ScalePercent, DefaultWeights())
	// Rate and sentiment missing: both fall back to the midpoint.
	got, err := calc.Overall(f(80), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("score must be defined when clarity is defined")
	}
	// 0.5*0.8 + 0.3*0.5 + 0.2*0.5 = 0.65 -> 65.
	if math.Abs(*got-65) > 1e-9 {
		t.Errorf("expected 65, got %v", *got)
	}
}

func TestOverall_IdealPacingAndPositiveSentiment(t *testing.T) {
	calc, _ := NewCalculator(models.ScaleUnit, DefaultWeights())
	got, err := calc.Overall(f(1.0), f(140), label(models.SentimentPositive))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || math.Abs(*got-100) > 1e-9 {
		t.Errorf("perfect inputs should score 100, got %v", got)
	}
}

func TestOverall_MonotonicInClarity(t *testing.T) {
	calc, _ := NewCalculator(models.ScalePercent, DefaultWeights())
	rates := []*float64{nil, f(50), f(140), f(250)}
	sentiments := []*models.SentimentLabel{nil, label(models.SentimentNegative), label(models.SentimentPositive)}

	for _, rate := range rates {
		for _, s := range sentiments {
			prev := -1.0
			for clarity := 0.0; clarity <= 100; clarity += 10 {
				got, err := calc.Overall(f(clarity), rate, s)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got == nil {
					t.Fatal("score must be defined")
				}
				if *got < prev {
					t.Errorf("score decreased from %v to %v as clarity rose to %v", prev, *got, clarity)
				}
				prev = *got
			}
		}
	}
}

func TestOverall_InconsistentScaleRejected(t *testing.T) {
	unit, _ := NewCalculator(models.ScaleUnit, DefaultWeights())
	// A percent-scale clarity fed into a unit-scale calculator.
	_, err := unit.Overall(f(85), f(140), nil)
	if !errors.Is(err, models.ErrInconsistentScale) {
		t.Errorf("expected ErrInconsistentScale, got %v", err)
	}

	percent, _ := NewCalculator(models.ScalePercent, DefaultWeights())
	_, err = percent.Overall(f(-5), f(140), nil)
	if !errors.Is(err, models.ErrInconsistentScale) {
		t.Errorf("negative clarity: expected ErrInconsistentScale, got %v", err)
	}
}

func TestPacing_Band(t *testing.T) {
	calc, _ := NewCalculator(models.ScaleUnit, DefaultWeights())

	cases := []struct {
		rate *float64
		want float64
	}{
		{nil, 0.5},
		{f(0), 0},
		{f(55), 0.5},
		{f(110), 1},
		{f(140), 1},
		{f(170), 1},
		{f(235), 0.5},
		{f(300), 0},
		{f(1000), 0},
	}
	for _, tc := range cases {
		got := calc.pacing(tc.rate)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("pacing(%v): expected %v, got %v", tc.rate, tc.want, got)
		}
	}
}

func TestOverall_ClampedToBounds(t *testing.T) {
	w := DefaultWeights()
	w.Clarity, w.Pacing, w.Sentiment = 0, 0, 0
	calc, err := NewCalculator(models.ScaleUnit, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := calc.Overall(f(0.5), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got < 0 || *got > 100 {
		t.Errorf("score out of bounds: %v", got)
	}
}
