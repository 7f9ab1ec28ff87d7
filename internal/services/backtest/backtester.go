package backtest

import (
	"context"
	"fmt"
	"sync"

	"StockPilot/internal/domain/models"
	domsvc "StockPilot/internal/domain/service"
)

// Config holds the walk-forward parameters. StartIndex and StepSize are in
// feature rows; Workers bounds window-level parallelism (<=1 means serial).
type Config struct {
	StartIndex int
	StepSize   int
	Threshold  float64
	Workers    int
}

// Backtester runs leakage-free expanding-window validation: every test row
// is predicted by a classifier fitted only on strictly earlier rows.
type Backtester struct {
	cfg Config
}

func New(cfg Config) *Backtester {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Backtester{cfg: cfg}
}

// Run walks the window plan over rows, fitting a fresh classifier from
// factory per window and emitting one PredictionRow per test row. The
// result is in chronological order regardless of how windows are
// scheduled. A trailing row without a known label is excluded before
// planning. An empty plan yields an empty, non-error result.
func (b *Backtester) Run(ctx context.Context, rows []models.FeatureRow, factory domsvc.ClassifierFactory) ([]models.PredictionRow, error) {
	if b.cfg.StepSize <= 0 {
		return nil, fmt.Errorf("backtest: step size must be positive, got %d", b.cfg.StepSize)
	}
	for len(rows) > 0 && !rows[len(rows)-1].HasTarget {
		rows = rows[:len(rows)-1]
	}

	windows := Plan(len(rows), b.cfg.StartIndex, b.cfg.StepSize)
	if len(windows) == 0 {
		return nil, nil
	}

	results := make([][]models.PredictionRow, len(windows))
	if b.cfg.Workers == 1 {
		for i, w := range windows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			preds, err := b.runWindow(rows, w, factory)
			if err != nil {
				return nil, err
			}
			results[i] = preds
		}
	} else if err := b.runParallel(ctx, rows, windows, factory, results); err != nil {
		return nil, err
	}

	out := make([]models.PredictionRow, 0, len(rows)-b.cfg.StartIndex)
	for _, preds := range results {
		out = append(out, preds...)
	}
	return out, nil
}

// runParallel fans windows out to a bounded worker pool. Windows share no
// state beyond read-only access to rows; results land in their window slot
// so concatenation stays ordered.
func (b *Backtester) runParallel(ctx context.Context, rows []models.FeatureRow, windows []models.Window, factory domsvc.ClassifierFactory, results [][]models.PredictionRow) error {
	jobs := make(chan int)
	failed := make(chan struct{})
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			close(failed)
		})
	}

	for w := 0; w < b.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Workers must keep receiving until jobs is closed, even
			// after a failure, so the sender below never blocks on a
			// pool with no live receivers. Remaining jobs are drained
			// without running them.
			for i := range jobs {
				select {
				case <-failed:
					continue
				default:
				}
				if err := ctx.Err(); err != nil {
					fail(err)
					continue
				}
				preds, err := b.runWindow(rows, windows[i], factory)
				if err != nil {
					fail(err)
					continue
				}
				results[i] = preds
			}
		}()
	}

	for i := range windows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return firstErr
}

func (b *Backtester) runWindow(rows []models.FeatureRow, w models.Window, factory domsvc.ClassifierFactory) ([]models.PredictionRow, error) {
	trainX := make([][]float64, w.TrainEnd)
	trainY := make([]int, w.TrainEnd)
	for i := 0; i < w.TrainEnd; i++ {
		trainX[i] = rows[i].Features
		trainY[i] = rows[i].Target
	}
	testX := make([][]float64, 0, w.TestEnd-w.TestStart)
	for i := w.TestStart; i < w.TestEnd; i++ {
		testX = append(testX, rows[i].Features)
	}

	clf := factory()
	if err := clf.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("fit window train=[0,%d): %w", w.TrainEnd, err)
	}
	probs, err := clf.PredictProba(testX)
	if err != nil {
		return nil, fmt.Errorf("predict window test=[%d,%d): %w", w.TestStart, w.TestEnd, err)
	}
	if len(probs) != len(testX) {
		return nil, fmt.Errorf("classifier returned %d probabilities for %d test rows", len(probs), len(testX))
	}

	preds := make([]models.PredictionRow, 0, len(testX))
	for i, p := range probs {
		row := rows[w.TestStart+i]
		preds = append(preds, models.PredictionRow{
			Date:      row.Date,
			Target:    row.Target,
			Predicted: Decide(p, b.cfg.Threshold),
		})
	}
	return preds, nil
}
