package repository

import (
	"context"
	"time"

	"StockPilot/internal/domain/models"
)

// BarProvider fetches daily price history for a symbol.
type BarProvider interface {
	History(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)
}

// QuoteProvider fetches the latest-day snapshot for a symbol.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
}

// NewsProvider fetches recent articles mentioning a company.
type NewsProvider interface {
	Recent(ctx context.Context, companyName string) ([]models.Article, error)
}

// BarStore persists daily bars so repeated backtests do not refetch the
// provider. Load returns bars in ascending date order.
type BarStore interface {
	Load(ctx context.Context, symbol string) ([]models.PriceBar, error)
	Save(ctx context.Context, symbol string, bars []models.PriceBar) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits decision events for downstream consumers.
type Publisher interface {
	PublishDecision(ctx context.Context, ev *models.DecisionEvent) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordBacktest(symbol, decision string)
	RecordError(kind string)
	RecordDecisionPrecision(symbol string, precision float64)
	RecordLatency(op string, seconds float64)
}
