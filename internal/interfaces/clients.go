// Package interfaces defines service contracts for MarketLens
package interfaces

import (
	"context"
	"time"

	"github.com/marketlens/marketlens/internal/models"
)

// MarketDataClient provides access to the market data provider.
// All methods degrade gracefully when no API key is configured: list-shaped
// results come back empty and record-shaped results come back zero-valued,
// never as a crash.
type MarketDataClient interface {
	// GetQuote retrieves a live price snapshot
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetProfile retrieves the company profile
	GetProfile(ctx context.Context, symbol string) (*models.Profile, error)

	// GetMetrics retrieves the flat fundamental ratio mapping
	GetMetrics(ctx context.Context, symbol string) (models.Metrics, error)

	// GetEarnings retrieves reported earnings periods, most recent first
	GetEarnings(ctx context.Context, symbol string) ([]models.EarningsPeriod, error)

	// GetFinancials retrieves reported financial statements, most recent first
	GetFinancials(ctx context.Context, symbol string) ([]models.FinancialReport, error)

	// GetPeers retrieves peer symbols
	GetPeers(ctx context.Context, symbol string) ([]string, error)

	// GetCandles retrieves OHLCV arrays for a date range
	GetCandles(ctx context.Context, symbol string, from, to time.Time) (*models.Candles, error)

	// GetNews retrieves company news for a date range
	GetNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error)

	// Search performs free-text symbol lookup
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}
