package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

func series(closes ...float64) []models.CleanedBar {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.CleanedBar, len(closes))
	for i, c := range closes {
		out[i] = models.CleanedBar{Date: start.AddDate(0, 0, i), Close: c}
		if i+1 < len(closes) {
			out[i].HasTarget = true
			if closes[i+1] > c {
				out[i].Target = 1
			}
		}
	}
	return out
}

func TestGenerateRatios(t *testing.T) {
	g := NewGenerator([]int{2, 3})
	rows, names, err := g.Generate(series(10, 20, 30, 40))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "close_ratio_2" || names[1] != "close_ratio_3" {
		t.Fatalf("unexpected names %v", names)
	}

	// First two rows lack the 3-day mean, so only indices 2 and 3 survive.
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// idx 2: close 30, mean2 = 25, mean3 = 20
	want := []float64{30.0 / 25.0, 30.0 / 20.0}
	for i, w := range want {
		if math.Abs(rows[0].Features[i]-w) > 1e-12 {
			t.Fatalf("feature %d = %v, want %v", i, rows[0].Features[i], w)
		}
	}

	// The unlabeled latest row keeps its features.
	last := rows[len(rows)-1]
	if last.HasTarget {
		t.Fatalf("latest row should be unlabeled")
	}
	if len(last.Features) != 2 {
		t.Fatalf("latest row lost its features")
	}
}

func TestGenerateInsufficientHistory(t *testing.T) {
	g := NewGenerator([]int{5})
	if _, _, err := g.Generate(series(1, 2, 3, 4)); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestGenerateBoundary(t *testing.T) {
	// Exactly maxHorizon rows: a single surviving row.
	g := NewGenerator([]int{4})
	rows, _, err := g.Generate(series(1, 2, 3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := 4.0 / 2.5
	if math.Abs(rows[0].Features[0]-want) > 1e-12 {
		t.Fatalf("feature = %v, want %v", rows[0].Features[0], want)
	}
}

func TestGenerateDefaultHorizons(t *testing.T) {
	g := NewGenerator(nil)
	if got := len(g.Names()); got != len(DefaultHorizons) {
		t.Fatalf("expected %d default horizons, got %d", len(DefaultHorizons), got)
	}
}
