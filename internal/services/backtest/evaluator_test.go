package backtest

import (
	"errors"
	"math"
	"testing"

	"StockPilot/internal/domain/models"
)

func TestDecideCutoff(t *testing.T) {
	if Decide(0.60, 0.60) != 1 {
		t.Fatalf("probability at cutoff must signal buy")
	}
	if Decide(0.599, 0.60) != 0 {
		t.Fatalf("probability below cutoff must not signal buy")
	}
	// Raising the cutoff can only turn 1s into 0s.
	for _, p := range []float64{0, 0.3, 0.59, 0.6, 0.8, 1} {
		if Decide(p, 0.9) > Decide(p, 0.5) {
			t.Fatalf("decision not monotone in cutoff at p=%v", p)
		}
	}
}

func TestPrecision(t *testing.T) {
	preds := []models.PredictionRow{
		{Target: 1, Predicted: 1},
		{Target: 0, Predicted: 1},
		{Target: 1, Predicted: 1},
		{Target: 1, Predicted: 0}, // misses are ignored by precision
		{Target: 0, Predicted: 0},
	}
	got, err := Precision(preds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-2.0/3.0) > 1e-12 {
		t.Fatalf("precision = %v, want %v", got, 2.0/3.0)
	}
}

func TestPrecisionUndefined(t *testing.T) {
	preds := []models.PredictionRow{
		{Target: 1, Predicted: 0},
		{Target: 0, Predicted: 0},
	}
	if _, err := Precision(preds); !errors.Is(err, models.ErrUndefinedPrecision) {
		t.Fatalf("expected ErrUndefinedPrecision, got %v", err)
	}
}

func TestLatestDecision(t *testing.T) {
	preds := []models.PredictionRow{{Predicted: 0}, {Predicted: 1}}
	got, err := LatestDecision(preds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Yes" {
		t.Fatalf("decision = %q, want Yes", got)
	}

	preds[1].Predicted = 0
	if got, _ = LatestDecision(preds); got != "No" {
		t.Fatalf("decision = %q, want No", got)
	}

	if _, err = LatestDecision(nil); !errors.Is(err, models.ErrNoPredictions) {
		t.Fatalf("expected ErrNoPredictions, got %v", err)
	}
}
