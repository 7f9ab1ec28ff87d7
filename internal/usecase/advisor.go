package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	domsvc "StockPilot/internal/domain/service"
	"StockPilot/internal/services/backtest"
	"StockPilot/internal/services/dataset"
	"StockPilot/internal/services/features"
	applogger "StockPilot/pkg/logger"
)

// AdvisorConfig holds the backtest business parameters. StartIndex <= 0
// means "a fifth of the usable rows", which keeps the first training window
// proportional to however much history the symbol has.
type AdvisorConfig struct {
	StartIndex int
	StepSize   int
	Threshold  float64
	Workers    int
}

// Advisor runs the full prediction pipeline for one symbol: history →
// cleaned series → close-ratio features → walk-forward backtest → summary.
type Advisor struct {
	bars    *BarSource
	cleaner *dataset.Cleaner
	gen     *features.Generator
	factory domsvc.ClassifierFactory
	pub     drepo.Publisher // optional
	metrics drepo.Metrics
	cfg     AdvisorConfig
	l       *applogger.Logger
}

func NewAdvisor(bars *BarSource, cleaner *dataset.Cleaner, gen *features.Generator, factory domsvc.ClassifierFactory, metrics drepo.Metrics, cfg AdvisorConfig) *Advisor {
	if cfg.StepSize <= 0 {
		cfg.StepSize = 63
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = backtest.DefaultThreshold
	}
	return &Advisor{bars: bars, cleaner: cleaner, gen: gen, factory: factory, metrics: metrics, cfg: cfg}
}

// SetPublisher injects an optional decision-event publisher.
func (a *Advisor) SetPublisher(p drepo.Publisher) { a.pub = p }

// SetLogger injects a structured logger.
func (a *Advisor) SetLogger(l *applogger.Logger) { a.l = l }

// Advise backtests symbol and returns the actionable summary. An empty
// backtest (too little history to form one window) is reported as
// ErrInsufficientHistory, never as a fabricated score.
func (a *Advisor) Advise(ctx context.Context, symbol string) (models.BacktestSummary, error) {
	started := time.Now()

	raw, err := a.bars.Daily(ctx, symbol)
	if err != nil {
		a.recordError("provider")
		return models.BacktestSummary{}, fmt.Errorf("load history %s: %w", symbol, err)
	}

	cleaned, err := a.cleaner.Clean(raw)
	if err != nil {
		a.recordError("clean")
		return models.BacktestSummary{}, err
	}
	rows, _, err := a.gen.Generate(cleaned)
	if err != nil {
		a.recordError("features")
		return models.BacktestSummary{}, err
	}

	start := a.cfg.StartIndex
	if start <= 0 {
		start = len(rows) / 5
	}
	if start == 0 {
		a.recordError("history")
		return models.BacktestSummary{}, fmt.Errorf("backtest %s: %w", symbol, models.ErrInsufficientHistory)
	}

	bt := backtest.New(backtest.Config{
		StartIndex: start,
		StepSize:   a.cfg.StepSize,
		Threshold:  a.cfg.Threshold,
		Workers:    a.cfg.Workers,
	})
	preds, err := bt.Run(ctx, rows, a.factory)
	if err != nil {
		a.recordError("backtest")
		return models.BacktestSummary{}, err
	}
	if len(preds) == 0 {
		a.recordError("history")
		return models.BacktestSummary{}, fmt.Errorf("backtest %s produced no predictions: %w", symbol, models.ErrInsufficientHistory)
	}

	precision, err := backtest.Precision(preds)
	if err != nil {
		a.recordError("precision")
		return models.BacktestSummary{}, fmt.Errorf("evaluate %s: %w", symbol, err)
	}
	decision, err := backtest.LatestDecision(preds)
	if err != nil {
		return models.BacktestSummary{}, fmt.Errorf("evaluate %s: %w", symbol, err)
	}

	if a.metrics != nil {
		a.metrics.RecordBacktest(symbol, decision)
		a.metrics.RecordDecisionPrecision(symbol, precision)
		a.metrics.RecordLatency("advise", time.Since(started).Seconds())
	}
	if a.l != nil {
		a.l.Info("backtest complete",
			applogger.String("symbol", symbol),
			applogger.String("decision", decision),
			applogger.Int("predictions", len(preds)),
			applogger.Duration("duration_ms", time.Since(started)),
		)
	}
	a.publish(ctx, symbol, decision, precision, len(preds))

	return models.BacktestSummary{
		ShouldBuy: decision,
		Precision: fmt.Sprintf("%.2f%%", precision*100),
	}, nil
}

func (a *Advisor) publish(ctx context.Context, symbol, decision string, precision float64, n int) {
	if a.pub == nil {
		return
	}
	ev := &models.DecisionEvent{
		Symbol:      symbol,
		Decision:    decision,
		Precision:   precision,
		Predictions: n,
		At:          time.Now().UTC(),
	}
	if err := a.pub.PublishDecision(ctx, ev); err != nil && a.l != nil {
		a.l.Warn("decision publish failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
}

func (a *Advisor) recordError(kind string) {
	if a.metrics != nil {
		a.metrics.RecordError(kind)
	}
}
