package models

import "time"

// FeatureRow is one trainable observation: the close-ratio features for a
// date plus its next-day label. Features is position-aligned with the
// feature-name list returned by the generator.
type FeatureRow struct {
	Date      time.Time
	Close     float64
	Target    int
	HasTarget bool
	Features  []float64
}

// Window is one expanding-window split over feature-row indices.
// Train covers [0, TrainEnd), test covers [TestStart, TestEnd);
// TrainEnd == TestStart, so train strictly precedes test.
type Window struct {
	TrainEnd  int
	TestStart int
	TestEnd   int
}

// PredictionRow is one out-of-sample prediction emitted by the backtester.
type PredictionRow struct {
	Date      time.Time
	Target    int
	Predicted int
}

// BacktestSummary is the actionable output of a full backtest run.
type BacktestSummary struct {
	ShouldBuy string `json:"should_buy_stock"`            // "Yes" | "No"
	Precision string `json:"buy_stock_precision_score"`   // e.g. "57.14%"
}

// DecisionEvent is published after each completed backtest.
type DecisionEvent struct {
	Symbol      string    `json:"symbol"`
	Decision    string    `json:"decision"`
	Precision   float64   `json:"precision"`
	Predictions int       `json:"predictions"`
	At          time.Time `json:"at"`
}
