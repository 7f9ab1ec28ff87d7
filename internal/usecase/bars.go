package usecase

import (
	"context"
	"time"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	applogger "StockPilot/pkg/logger"
)

// BarSource loads daily history for a symbol, preferring the bar store and
// falling back to the provider. Provider fetches back-fill the store
// best-effort so repeated backtests stay off the network.
type BarSource struct {
	provider drepo.BarProvider
	store    drepo.BarStore // optional
	from     time.Time
	maxAge   time.Duration
	minBars  int
	l        *applogger.Logger
}

func NewBarSource(provider drepo.BarProvider, store drepo.BarStore, from time.Time, maxAge time.Duration, minBars int) *BarSource {
	if from.IsZero() {
		from = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	if minBars <= 0 {
		minBars = 2
	}
	return &BarSource{provider: provider, store: store, from: from, maxAge: maxAge, minBars: minBars}
}

// SetLogger injects a structured logger.
func (s *BarSource) SetLogger(l *applogger.Logger) { s.l = l }

// Daily returns the full daily history for symbol in ascending date order.
func (s *BarSource) Daily(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	if s.store != nil {
		bars, err := s.store.Load(ctx, symbol)
		if err != nil {
			if s.l != nil {
				s.l.Warn("bar store load failed", applogger.String("symbol", symbol), applogger.Error(err))
			}
		} else if s.fresh(bars) {
			if s.l != nil {
				s.l.Debug("bar store hit", applogger.String("symbol", symbol), applogger.Int("bars", len(bars)))
			}
			return bars, nil
		}
	}

	bars, err := s.provider.History(ctx, symbol, s.from, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if s.store != nil && len(bars) > 0 {
		if err := s.store.Save(ctx, symbol, bars); err != nil && s.l != nil {
			s.l.Warn("bar store save failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
	}
	return bars, nil
}

func (s *BarSource) fresh(bars []models.PriceBar) bool {
	if len(bars) < s.minBars {
		return false
	}
	last := bars[len(bars)-1].Date
	// Allow weekends: the newest bar may legitimately be a few days old.
	return time.Since(last) < s.maxAge+72*time.Hour
}
