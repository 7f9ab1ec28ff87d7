package service

// Classifier is the model capability the backtester depends on: fit on
// labeled feature rows, then produce the positive-class probability per row.
// X is row-major; PredictProba output is aligned by position with its input.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(X [][]float64) ([]float64, error)
}

// ClassifierFactory builds a fresh classifier per backtest window so no
// fitted state leaks between windows.
type ClassifierFactory func() Classifier
