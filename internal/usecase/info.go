package usecase

import (
	"context"
	"fmt"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
)

// TodayInfo serves the latest-day snapshot for a symbol.
type TodayInfo struct {
	quotes drepo.QuoteProvider
}

func NewTodayInfo(quotes drepo.QuoteProvider) *TodayInfo {
	return &TodayInfo{quotes: quotes}
}

func (t *TodayInfo) Get(ctx context.Context, symbol string) (models.Quote, error) {
	q, err := t.quotes.Quote(ctx, symbol)
	if err != nil {
		return models.Quote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	return q, nil
}
