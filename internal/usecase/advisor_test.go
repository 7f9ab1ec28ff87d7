package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
	"StockPilot/internal/services/classifier"
	"StockPilot/internal/services/dataset"
	"StockPilot/internal/services/features"
)

type fakeProvider struct {
	bars []models.PriceBar
}

func (f *fakeProvider) History(context.Context, string, time.Time, time.Time) ([]models.PriceBar, error) {
	return f.bars, nil
}

type capturePublisher struct {
	events []*models.DecisionEvent
}

func (c *capturePublisher) PublishDecision(_ context.Context, ev *models.DecisionEvent) error {
	c.events = append(c.events, ev)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func risingBars(n int) []models.PriceBar {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	for i := range bars {
		bars[i] = models.PriceBar{Date: start.AddDate(0, 0, i), Close: 100 + float64(i)}
	}
	return bars
}

func newTestAdvisor(bars []models.PriceBar, cfg AdvisorConfig) *Advisor {
	src := NewBarSource(&fakeProvider{bars: bars}, nil, time.Time{}, 0, 0)
	cleaner := dataset.NewCleaner(time.Time{})
	gen := features.NewGenerator([]int{2, 5})
	factory := classifier.Factory(classifier.Config{Trees: 20, MinSamplesSplit: 5, Seed: 1})
	return NewAdvisor(src, cleaner, gen, factory, nil, cfg)
}

func TestAdviseRisingMarket(t *testing.T) {
	a := newTestAdvisor(risingBars(400), AdvisorConfig{StepSize: 63, Threshold: 0.5, Workers: 2})
	pub := &capturePublisher{}
	a.SetPublisher(pub)

	got, err := a.Advise(context.Background(), "UP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Tomorrow's close is always higher, so every prediction is correct.
	if got.ShouldBuy != "Yes" {
		t.Fatalf("decision = %q, want Yes", got.ShouldBuy)
	}
	if got.Precision != "100.00%" {
		t.Fatalf("precision = %q, want 100.00%%", got.Precision)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Symbol != "UP" || ev.Decision != "Yes" || ev.Precision != 1 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Predictions == 0 {
		t.Fatalf("event should carry the prediction count")
	}
}

func TestAdviseInsufficientHistory(t *testing.T) {
	a := newTestAdvisor(risingBars(3), AdvisorConfig{})
	if _, err := a.Advise(context.Background(), "THIN"); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestAdviseDeterministic(t *testing.T) {
	bars := risingBars(300)
	// Introduce some down days so the forest sees both classes.
	for i := 50; i < 300; i += 7 {
		bars[i].Close -= 3
	}
	cfg := AdvisorConfig{StepSize: 40, Threshold: 0.5, Workers: 3}

	first, err := newTestAdvisor(bars, cfg).Advise(context.Background(), "MIX")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := newTestAdvisor(bars, cfg).Advise(context.Background(), "MIX")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first != second {
		t.Fatalf("runs differ: %+v vs %+v", first, second)
	}
}
