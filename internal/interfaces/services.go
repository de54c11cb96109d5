// Package interfaces defines service contracts for MarketLens
package interfaces

import (
	"context"

	"github.com/marketlens/marketlens/internal/models"
)

// StockService assembles normalized stock-detail records.
type StockService interface {
	// Assemble merges quote, profile, metrics, earnings, and financials into
	// a fresh StockDetail. The quote is mandatory; everything else is
	// best-effort. Fails with InvalidSymbolError when the quote cannot be
	// fetched or carries a zero price.
	Assemble(ctx context.Context, symbol string) (*models.StockDetail, error)

	// LatestGeneration returns the most recent assembly generation for a
	// symbol, letting callers discard results superseded by a newer request.
	LatestGeneration(symbol string) uint64
}

// SignalService scores an assembled stock-detail record.
type SignalService interface {
	// Score derives the risk assessment and buy/hold/sell recommendation.
	// Absent metric fields skip their rules silently.
	Score(detail *models.StockDetail) (*models.RiskAssessment, *models.Recommendation)
}

// PortfolioService aggregates holdings into a valuation summary.
type PortfolioService interface {
	// Summarize values every position, computes sector/industry allocation
	// and XIRR, and never drops a holding on per-symbol fetch failure.
	Summarize(ctx context.Context, holdings []models.Holding) (*models.PortfolioSummary, error)

	// RenderAllocationChart renders the sector allocation as a PNG donut.
	RenderAllocationChart(summary *models.PortfolioSummary) ([]byte, error)
}
