package yahoo

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	applogger "StockPilot/pkg/logger"
	"StockPilot/pkg/util"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
)

// Client implements BarProvider and QuoteProvider against Yahoo Finance.
type Client struct {
	attempts int
	backoff  time.Duration
	l        *applogger.Logger
}

// New creates a Yahoo Finance client. Transient fetch failures are retried
// up to attempts times with linear backoff.
func New(attempts int, backoff time.Duration) *Client {
	if attempts <= 0 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	return &Client{attempts: attempts, backoff: backoff}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

var _ drepo.BarProvider = (*Client)(nil)
var _ drepo.QuoteProvider = (*Client)(nil)

// History fetches daily bars for [from, to], ascending by date.
func (c *Client) History(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	var bars []models.PriceBar
	err := c.withRetry(ctx, func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&from),
			End:      datetime.New(&to),
			Interval: datetime.OneDay,
		}
		iter := chart.Get(params)

		bars = bars[:0]
		for iter.Next() {
			b := iter.Bar()
			closePx, _ := b.Close.Float64()
			openPx, _ := b.Open.Float64()
			highPx, _ := b.High.Float64()
			lowPx, _ := b.Low.Float64()
			bars = append(bars, models.PriceBar{
				Date:   util.DayStart(time.Unix(int64(b.Timestamp), 0)),
				Open:   openPx,
				High:   highPx,
				Low:    lowPx,
				Close:  closePx,
				Volume: int64(b.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("chart %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Yahoo occasionally returns bars out of order around splits.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	if c.l != nil {
		c.l.Debug("yahoo history ok",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
		)
	}
	return bars, nil
}

// Quote fetches the latest-day snapshot including valuation fields.
func (c *Client) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var q models.Quote
	err := c.withRetry(ctx, func() error {
		eq, err := equity.Get(symbol)
		if err != nil {
			return fmt.Errorf("equity %s: %w", symbol, err)
		}
		q = models.Quote{
			Symbol:    symbol,
			High:      round2(eq.RegularMarketDayHigh),
			Low:       round2(eq.RegularMarketDayLow),
			Close:     round2(eq.RegularMarketPrice),
			ForwardPE: round2(eq.ForwardPE),
			MarketCap: fmt.Sprintf("%.2e", float64(eq.MarketCap)),
		}
		return nil
	})
	return q, err
}

func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 1; i <= c.attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == c.attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * c.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
