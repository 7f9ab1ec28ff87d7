package dataset

import (
	"errors"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

func barsFrom(start time.Time, closes ...float64) []models.PriceBar {
	out := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		out[i] = models.PriceBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func TestCleanLabels(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCleaner(time.Time{})

	rows, err := c.Clean(barsFrom(start, 100, 101, 99, 102))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	wantTargets := []int{1, 0, 1}
	for i, want := range wantTargets {
		if !rows[i].HasTarget {
			t.Fatalf("row %d should have a target", i)
		}
		if rows[i].Target != want {
			t.Fatalf("row %d target = %d, want %d", i, rows[i].Target, want)
		}
	}
	last := rows[len(rows)-1]
	if last.HasTarget || last.Target != 0 {
		t.Fatalf("last row must be unlabeled, got %+v", last)
	}
}

func TestCleanFloorCut(t *testing.T) {
	preFloor := time.Date(1999, 12, 20, 0, 0, 0, 0, time.UTC)
	c := NewCleaner(time.Time{})

	// 20 bars straddle the default floor; only those from 2000-01-01 stay.
	rows, err := c.Clean(barsFrom(preFloor, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("expected 8 rows after floor cut, got %d", len(rows))
	}
	if rows[0].Date.Before(DefaultFloor) {
		t.Fatalf("first kept date %v precedes floor", rows[0].Date)
	}
}

func TestCleanInsufficientHistory(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCleaner(time.Time{})

	if _, err := c.Clean(barsFrom(start, 100)); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
	if _, err := c.Clean(nil); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory for empty input, got %v", err)
	}
}

func TestCleanDeterministic(t *testing.T) {
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	in := barsFrom(start, 10, 11, 10.5, 12, 11.8)
	c := NewCleaner(time.Time{})

	a, err := c.Clean(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.Clean(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
