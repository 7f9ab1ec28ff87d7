package models

import "errors"

var (
	// ErrInsufficientHistory means the series is too short to clean,
	// featurize, or form even one training window.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrUndefinedPrecision means no positive predictions exist, so
	// precision has a zero denominator.
	ErrUndefinedPrecision = errors.New("precision undefined: no positive predictions")

	// ErrNoPredictions means a decision was requested from an empty
	// prediction sequence.
	ErrNoPredictions = errors.New("no predictions available")
)
