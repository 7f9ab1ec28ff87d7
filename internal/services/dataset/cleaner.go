package dataset

import (
	"fmt"
	"time"

	"StockPilot/internal/domain/models"
)

// DefaultFloor is the earliest date kept after cleaning. Bars before it are
// discarded before labeling, matching the supported history of the product.
var DefaultFloor = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Cleaner reduces raw bars to the labeled series the pipeline consumes.
type Cleaner struct {
	floor time.Time
}

func NewCleaner(floor time.Time) *Cleaner {
	if floor.IsZero() {
		floor = DefaultFloor
	}
	return &Cleaner{floor: floor}
}

// Clean drops bars before the floor and labels each remaining bar with the
// next bar's close. The output has one row per kept bar, in the input's
// date order. The last row has no observable next-day close: it keeps its
// features-worthy fields but carries HasTarget=false, and must never be
// used as a training or testing example.
func (c *Cleaner) Clean(bars []models.PriceBar) ([]models.CleanedBar, error) {
	start := 0
	for start < len(bars) && bars[start].Date.Before(c.floor) {
		start++
	}
	kept := bars[start:]
	if len(kept) < 2 {
		return nil, fmt.Errorf("clean %d bars after floor cut: %w", len(kept), models.ErrInsufficientHistory)
	}

	out := make([]models.CleanedBar, len(kept))
	for i, b := range kept {
		row := models.CleanedBar{Date: b.Date, Close: b.Close}
		if i+1 < len(kept) {
			row.TomorrowClose = kept[i+1].Close
			row.HasTarget = true
			if row.TomorrowClose > row.Close {
				row.Target = 1
			}
		}
		out[i] = row
	}
	return out, nil
}
