package usecase

import (
	"context"
	"fmt"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
)

// News serves recent articles mentioning a company.
type News struct {
	provider drepo.NewsProvider
}

func NewNews(provider drepo.NewsProvider) *News {
	return &News{provider: provider}
}

func (n *News) Recent(ctx context.Context, companyName string) ([]models.Article, error) {
	articles, err := n.provider.Recent(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("news %s: %w", companyName, err)
	}
	return articles, nil
}
