package backtest

import "StockPilot/internal/domain/models"

// Precision is the fraction of positive predictions that were correct.
// With zero positive predictions the score is undefined and an error is
// returned instead of a silent 0 or NaN.
func Precision(predictions []models.PredictionRow) (float64, error) {
	var positives, hits int
	for _, p := range predictions {
		if p.Predicted != 1 {
			continue
		}
		positives++
		if p.Target == 1 {
			hits++
		}
	}
	if positives == 0 {
		return 0, models.ErrUndefinedPrecision
	}
	return float64(hits) / float64(positives), nil
}

// LatestDecision maps the chronologically last prediction to the
// actionable buy signal.
func LatestDecision(predictions []models.PredictionRow) (string, error) {
	if len(predictions) == 0 {
		return "", models.ErrNoPredictions
	}
	if predictions[len(predictions)-1].Predicted == 1 {
		return "Yes", nil
	}
	return "No", nil
}
