package backtest

import "StockPilot/internal/domain/models"

// Plan enumerates the expanding-window splits for n rows: test ranges of
// stepSize rows starting at startIndex, each trained on everything before
// it. The plan is a plain slice so it can be inspected, replayed, and
// tested without running any model. startIndex >= n yields an empty plan.
func Plan(n, startIndex, stepSize int) []models.Window {
	if n <= 0 || startIndex <= 0 || stepSize <= 0 {
		return nil
	}
	var windows []models.Window
	for i := startIndex; i < n; i += stepSize {
		end := i + stepSize
		if end > n {
			end = n
		}
		windows = append(windows, models.Window{
			TrainEnd:  i,
			TestStart: i,
			TestEnd:   end,
		})
	}
	return windows
}
