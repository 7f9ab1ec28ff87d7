package backtest

// DefaultThreshold is deliberately above the naive 0.50 so the model only
// commits to "up" when it is confident, trading recall for precision.
const DefaultThreshold = 0.60

// Decide converts a positive-class probability into a binary decision.
// Raising the cutoff can only flip decisions from 1 to 0.
func Decide(probability, cutoff float64) int {
	if probability >= cutoff {
		return 1
	}
	return 0
}
