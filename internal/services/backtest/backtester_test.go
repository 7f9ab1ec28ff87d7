package backtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
	domsvc "StockPilot/internal/domain/service"
)

// indexClassifier treats feature 0 as the row index, so tests can verify
// exactly which rows were trained and predicted on.
type indexClassifier struct {
	trainLen  int
	threshold float64
}

func (c *indexClassifier) Fit(X [][]float64, y []int) error {
	c.trainLen = len(X)
	return nil
}

func (c *indexClassifier) PredictProba(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		if int(x[0]) < c.trainLen {
			return nil, fmt.Errorf("row %d was in the training set of size %d", int(x[0]), c.trainLen)
		}
		if x[0] >= c.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

func indexRows(n int) []models.FeatureRow {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.FeatureRow, n)
	for i := range rows {
		rows[i] = models.FeatureRow{
			Date:      start.AddDate(0, 0, i),
			Target:    i % 2,
			HasTarget: true,
			Features:  []float64{float64(i)},
		}
	}
	return rows
}

func TestRunNoLeakage(t *testing.T) {
	rows := indexRows(200)
	bt := New(Config{StartIndex: 50, StepSize: 30, Threshold: 0.5})

	factory := func() domsvc.Classifier { return &indexClassifier{threshold: 100} }
	preds, err := bt.Run(context.Background(), rows, factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preds) != 150 {
		t.Fatalf("expected 150 predictions, got %d", len(preds))
	}
	for i := 1; i < len(preds); i++ {
		if !preds[i-1].Date.Before(preds[i].Date) {
			t.Fatalf("predictions out of order at %d: %v >= %v", i, preds[i-1].Date, preds[i].Date)
		}
	}
}

func TestRunParallelMatchesSerial(t *testing.T) {
	rows := indexRows(400)
	factory := func() domsvc.Classifier { return &indexClassifier{threshold: 250} }

	serial, err := New(Config{StartIndex: 80, StepSize: 37, Threshold: 0.5}).Run(context.Background(), rows, factory)
	if err != nil {
		t.Fatalf("serial run: %v", err)
	}
	parallel, err := New(Config{StartIndex: 80, StepSize: 37, Threshold: 0.5, Workers: 4}).Run(context.Background(), rows, factory)
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}

	if len(serial) != len(parallel) {
		t.Fatalf("length mismatch: %d vs %d", len(serial), len(parallel))
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("prediction %d differs: %+v vs %+v", i, serial[i], parallel[i])
		}
	}
}

func TestRunExcludesUnlabeledTail(t *testing.T) {
	rows := indexRows(100)
	rows[99].HasTarget = false

	var mu sync.Mutex
	maxSeen := -1
	factory := func() domsvc.Classifier {
		return &recordingClassifier{onPredict: func(idx int) {
			mu.Lock()
			if idx > maxSeen {
				maxSeen = idx
			}
			mu.Unlock()
		}}
	}

	preds, err := New(Config{StartIndex: 20, StepSize: 25, Threshold: 0.5, Workers: 2}).Run(context.Background(), rows, factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preds) != 79 {
		t.Fatalf("expected 79 predictions, got %d", len(preds))
	}
	if maxSeen != 98 {
		t.Fatalf("unlabeled tail leaked into testing: max index %d", maxSeen)
	}
}

func TestRunEmptyPlan(t *testing.T) {
	preds, err := New(Config{StartIndex: 50, StepSize: 10}).Run(context.Background(), indexRows(30), func() domsvc.Classifier {
		return &indexClassifier{}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preds) != 0 {
		t.Fatalf("expected no predictions, got %d", len(preds))
	}
}

func TestRunMonotonicTrendPerfectPrecision(t *testing.T) {
	// Strictly rising series: every labeled row has target 1, so an
	// always-buy classifier scores precision 1.0 out of sample.
	start := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	rows := make([]models.FeatureRow, 1300)
	for i := range rows {
		rows[i] = models.FeatureRow{
			Date:      start.AddDate(0, 0, i),
			Close:     100 + float64(i),
			Target:    1,
			HasTarget: i < len(rows)-1,
			Features:  []float64{1 + float64(i)/1300},
		}
	}

	preds, err := New(Config{StartIndex: 700, StepSize: 90, Threshold: 0.5}).Run(context.Background(), rows, func() domsvc.Classifier {
		return &constClassifier{prob: 1}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preds) != 599 {
		t.Fatalf("expected 599 predictions, got %d", len(preds))
	}

	precision, err := Precision(preds)
	if err != nil {
		t.Fatalf("precision: %v", err)
	}
	if precision != 1 {
		t.Fatalf("precision = %v, want 1", precision)
	}
	decision, err := LatestDecision(preds)
	if err != nil {
		t.Fatalf("decision: %v", err)
	}
	if decision != "Yes" {
		t.Fatalf("decision = %q, want Yes", decision)
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{StartIndex: 10, StepSize: 5}).Run(ctx, indexRows(100), func() domsvc.Classifier {
		return &indexClassifier{}
	})
	if err == nil {
		t.Fatalf("expected context error")
	}
}

// runWithDeadline fails the test instead of hanging the suite when Run
// never returns.
func runWithDeadline(t *testing.T, ctx context.Context, b *Backtester, rows []models.FeatureRow, factory domsvc.ClassifierFactory) error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		_, err := b.Run(ctx, rows, factory)
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return")
		return nil
	}
}

func TestRunParallelFitErrorReturns(t *testing.T) {
	b := New(Config{StartIndex: 50, StepSize: 30, Workers: 2})
	err := runWithDeadline(t, context.Background(), b, indexRows(300), func() domsvc.Classifier {
		return &failingClassifier{}
	})
	if err == nil {
		t.Fatalf("expected fit error")
	}
}

func TestRunParallelCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(Config{StartIndex: 10, StepSize: 5, Workers: 4})
	err := runWithDeadline(t, ctx, b, indexRows(100), func() domsvc.Classifier {
		return &indexClassifier{}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type failingClassifier struct{}

func (c *failingClassifier) Fit([][]float64, []int) error { return errors.New("fit failed") }

func (c *failingClassifier) PredictProba(X [][]float64) ([]float64, error) {
	return nil, errors.New("predict failed")
}

type constClassifier struct {
	prob float64
}

func (c *constClassifier) Fit([][]float64, []int) error { return nil }

func (c *constClassifier) PredictProba(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i := range out {
		out[i] = c.prob
	}
	return out, nil
}

type recordingClassifier struct {
	onPredict func(idx int)
}

func (c *recordingClassifier) Fit(X [][]float64, y []int) error { return nil }

func (c *recordingClassifier) PredictProba(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for _, x := range X {
		c.onPredict(int(x[0]))
	}
	return out, nil
}
