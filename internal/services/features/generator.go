package features

import (
	"fmt"
	"math"

	"StockPilot/internal/domain/models"
)

// DefaultHorizons are the trailing rolling-mean windows in trading days:
// ~2 days, 1 week, 1 month, 1 quarter, 1 year, 5 years.
var DefaultHorizons = []int{2, 5, 21, 63, 252, 1260}

// Generator derives close-ratio features from a cleaned series.
type Generator struct {
	horizons []int
}

func NewGenerator(horizons []int) *Generator {
	if len(horizons) == 0 {
		horizons = DefaultHorizons
	}
	return &Generator{horizons: horizons}
}

// Names returns the ordered feature names, one per horizon.
func (g *Generator) Names() []string {
	names := make([]string, len(g.horizons))
	for i, h := range g.horizons {
		names[i] = fmt.Sprintf("close_ratio_%d", h)
	}
	return names
}

// Generate computes close / rollingMean(close, h) for every horizon and
// drops each row whose feature set is incomplete, i.e. the first
// max(horizons)-1 rows of the series. The target column is exempt from the
// drop: the most recent row keeps its features even though its label is
// unknown, so a caller can still ask "what does the model say today".
// Order and date contiguity of the surviving rows are preserved.
func (g *Generator) Generate(series []models.CleanedBar) ([]models.FeatureRow, []string, error) {
	maxH := 0
	for _, h := range g.horizons {
		if h > maxH {
			maxH = h
		}
	}
	if len(series) < maxH {
		return nil, nil, fmt.Errorf("featurize %d rows with max horizon %d: %w",
			len(series), maxH, models.ErrInsufficientHistory)
	}

	ratios := make([][]float64, len(g.horizons))
	for i, h := range g.horizons {
		ratios[i] = rollingRatio(series, h)
	}

	out := make([]models.FeatureRow, 0, len(series)-maxH+1)
	for idx := range series {
		feats := make([]float64, len(g.horizons))
		complete := true
		for i := range g.horizons {
			v := ratios[i][idx]
			if math.IsNaN(v) {
				complete = false
				break
			}
			feats[i] = v
		}
		if !complete {
			continue
		}
		row := series[idx]
		out = append(out, models.FeatureRow{
			Date:      row.Date,
			Close:     row.Close,
			Target:    row.Target,
			HasTarget: row.HasTarget,
			Features:  feats,
		})
	}
	return out, g.Names(), nil
}

// rollingRatio computes close[i] / mean(close[i-h+1 .. i]) per index, NaN
// until h observations exist. A running sum keeps it O(n) per horizon.
func rollingRatio(series []models.CleanedBar, h int) []float64 {
	out := make([]float64, len(series))
	var sum float64
	for i, row := range series {
		sum += row.Close
		if i >= h {
			sum -= series[i-h].Close
		}
		if i < h-1 {
			out[i] = math.NaN()
			continue
		}
		mean := sum / float64(h)
		if mean == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = row.Close / mean
	}
	return out
}
