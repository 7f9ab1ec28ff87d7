package backtest

import (
	"testing"

	"StockPilot/internal/domain/models"
)

func TestPlanSplits(t *testing.T) {
	windows := Plan(1000, 700, 90)
	want := []models.Window{
		{TrainEnd: 700, TestStart: 700, TestEnd: 790},
		{TrainEnd: 790, TestStart: 790, TestEnd: 880},
		{TrainEnd: 880, TestStart: 880, TestEnd: 970},
		{TrainEnd: 970, TestStart: 970, TestEnd: 1000},
	}
	if len(windows) != len(want) {
		t.Fatalf("expected %d windows, got %d", len(want), len(windows))
	}
	for i, w := range want {
		if windows[i] != w {
			t.Fatalf("window %d = %+v, want %+v", i, windows[i], w)
		}
	}
}

func TestPlanCoversEveryTestRowOnce(t *testing.T) {
	seen := make(map[int]int)
	for _, w := range Plan(500, 123, 37) {
		if w.TrainEnd != w.TestStart {
			t.Fatalf("train must end where test starts: %+v", w)
		}
		for i := w.TestStart; i < w.TestEnd; i++ {
			seen[i]++
		}
	}
	for i := 123; i < 500; i++ {
		if seen[i] != 1 {
			t.Fatalf("row %d covered %d times", i, seen[i])
		}
	}
	if len(seen) != 500-123 {
		t.Fatalf("covered %d rows, want %d", len(seen), 500-123)
	}
}

func TestPlanDegenerate(t *testing.T) {
	if w := Plan(300, 700, 90); w != nil {
		t.Fatalf("start beyond n must yield no windows, got %v", w)
	}
	if w := Plan(0, 10, 5); w != nil {
		t.Fatalf("empty series must yield no windows, got %v", w)
	}
	if w := Plan(100, 0, 5); w != nil {
		t.Fatalf("non-positive start must yield no windows, got %v", w)
	}
	if w := Plan(100, 10, 0); w != nil {
		t.Fatalf("non-positive step must yield no windows, got %v", w)
	}
}
