package usecase

import (
	"context"
	"testing"
	"time"

	"StockPilot/internal/services/dataset"
)

func TestChartSeriesFullPeriod(t *testing.T) {
	// 1d needs 2 points; give plenty of history.
	bars := risingBars(30)
	c := NewChart(NewBarSource(&fakeProvider{bars: bars}, nil, time.Time{}, 0, 0), dataset.NewCleaner(time.Time{}))

	got, err := c.Series(context.Background(), "UP", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.StockData) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got.StockData))
	}
	if got.PercentChange == nil || got.CloseRange.Min == nil || got.CloseRange.Max == nil {
		t.Fatalf("aggregates must be present for a full window: %+v", got)
	}
	// last two closes are 128 and 129
	if *got.CloseRange.Min != 128 || *got.CloseRange.Max != 129 {
		t.Fatalf("close range = [%v, %v], want [128, 129]", *got.CloseRange.Min, *got.CloseRange.Max)
	}
	want := 0.78 // (129-128)/128*100 rounded
	if *got.PercentChange != want {
		t.Fatalf("percent change = %v, want %v", *got.PercentChange, want)
	}
}

func TestChartSeriesShortWindowDegrades(t *testing.T) {
	bars := risingBars(10)
	c := NewChart(NewBarSource(&fakeProvider{bars: bars}, nil, time.Time{}, 0, 0), dataset.NewCleaner(time.Time{}))

	got, err := c.Series(context.Background(), "UP", "1y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.StockData) != 10 {
		t.Fatalf("expected all 10 points, got %d", len(got.StockData))
	}
	if got.PercentChange != nil || got.CloseRange.Min != nil || got.CloseRange.Max != nil {
		t.Fatalf("aggregates must be nil for a partial window: %+v", got)
	}
}

func TestChartSeriesUnknownPeriodDefaults(t *testing.T) {
	bars := risingBars(300)
	c := NewChart(NewBarSource(&fakeProvider{bars: bars}, nil, time.Time{}, 0, 0), dataset.NewCleaner(time.Time{}))

	got, err := c.Series(context.Background(), "UP", "bogus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Unknown periods fall back to the 1y window of 253 points, which
	// this history fills.
	if len(got.StockData) != 253 {
		t.Fatalf("expected 253 points for the 1y fallback, got %d", len(got.StockData))
	}
	if got.PercentChange == nil || got.CloseRange.Min == nil || got.CloseRange.Max == nil {
		t.Fatalf("aggregates must be present for a full fallback window: %+v", got)
	}
}
