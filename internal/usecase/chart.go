package usecase

import (
	"context"
	"fmt"

	"StockPilot/internal/domain/models"
	"StockPilot/internal/services/dataset"

	"github.com/shopspring/decimal"
)

// periodDays maps a chart period to trailing data points. One extra point
// is kept so percent change spans the full period.
var periodDays = map[string]int{
	"1d":  1 + 1,
	"1w":  5 + 1,
	"1mo": 21 + 1,
	"3mo": 21*3 + 1,
	"6mo": 21*6 + 1,
	"1y":  252 + 1,
	"2y":  252*2 + 1,
	"5y":  252*5 + 1,
}

const defaultPeriod = "1y"

// Chart serves the trailing close series used by the frontend graph.
type Chart struct {
	bars    *BarSource
	cleaner *dataset.Cleaner
}

func NewChart(bars *BarSource, cleaner *dataset.Cleaner) *Chart {
	return &Chart{bars: bars, cleaner: cleaner}
}

// Series returns the trailing {date, close} points for the period plus the
// percent change and close range over that window. When fewer points exist
// than the period asks for, the aggregates degrade to nulls rather than
// reporting a partial window as if it were complete.
func (c *Chart) Series(ctx context.Context, symbol, period string) (models.ChartSeries, error) {
	days, ok := periodDays[period]
	if !ok {
		days = periodDays[defaultPeriod]
	}

	raw, err := c.bars.Daily(ctx, symbol)
	if err != nil {
		return models.ChartSeries{}, fmt.Errorf("load history %s: %w", symbol, err)
	}
	cleaned, err := c.cleaner.Clean(raw)
	if err != nil {
		return models.ChartSeries{}, err
	}

	tail := cleaned
	if len(tail) > days {
		tail = tail[len(tail)-days:]
	}

	points := make([]models.ChartPoint, len(tail))
	for i, row := range tail {
		points[i] = models.ChartPoint{
			Date:  row.Date.Format("2006-01-02"),
			Close: row.Close,
		}
	}

	series := models.ChartSeries{StockData: points}
	if len(tail) >= days {
		first, last := tail[0].Close, tail[len(tail)-1].Close
		change := round2((last - first) / first * 100)
		minC, maxC := tail[0].Close, tail[0].Close
		for _, row := range tail[1:] {
			if row.Close < minC {
				minC = row.Close
			}
			if row.Close > maxC {
				maxC = row.Close
			}
		}
		minR, maxR := round2(minC), round2(maxC)
		series.PercentChange = &change
		series.CloseRange = models.CloseRange{Min: &minR, Max: &maxR}
	}
	return series, nil
}

func round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
