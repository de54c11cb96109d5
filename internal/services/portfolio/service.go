// Package portfolio aggregates holdings into valuation summaries, sector
// allocation, money-weighted return, and allocation charts.
package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
	"github.com/marketlens/marketlens/internal/sector"
)

// Service implements the PortfolioService interface
type Service struct {
	stocks     interfaces.StockService
	classifier *sector.Classifier
	logger     *common.Logger
	now        func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the clock used for valuation timestamps and XIRR
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a portfolio analytics service
func NewService(stocks interfaces.StockService, classifier *sector.Classifier, opts ...ServiceOption) *Service {
	s := &Service{
		stocks:     stocks,
		classifier: classifier,
		logger:     common.NewSilentLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize values every position, computes sector/industry allocation and
// XIRR, and splits out watchlist entries (zero shares). A per-symbol fetch
// failure never drops the holding: it is valued at its own cost basis and
// flagged Degraded.
func (s *Service) Summarize(ctx context.Context, holdings []models.Holding) (*models.PortfolioSummary, error) {
	now := s.now()
	summary := &models.PortfolioSummary{
		SectorAllocation:   make(map[string]float64),
		IndustryAllocation: make(map[string]float64),
		Holdings:           []models.EnrichedHolding{},
		Watchlist:          []models.EnrichedHolding{},
		AsOf:               now,
	}

	var positions []models.Holding
	var watchlist []models.Holding
	for _, h := range holdings {
		if h.IsWatchlist() {
			watchlist = append(watchlist, h)
		} else {
			positions = append(positions, h)
		}
	}

	enriched := make([]models.EnrichedHolding, len(positions))
	var wg sync.WaitGroup
	for i, h := range positions {
		wg.Add(1)
		go func(i int, h models.Holding) {
			defer wg.Done()
			enriched[i] = s.enrich(ctx, h)
		}(i, h)
	}
	wg.Wait()

	for _, eh := range enriched {
		summary.TotalValue += eh.Value
		summary.TotalCost += eh.Cost
		summary.Holdings = append(summary.Holdings, eh)
	}
	summary.TotalGain = summary.TotalValue - summary.TotalCost
	if summary.TotalCost > 0 {
		summary.TotalGainPct = summary.TotalGain / summary.TotalCost * 100
	}

	// Allocation percentages are shares of total value, so they sum to 100
	// whenever anything is valued.
	if summary.TotalValue > 0 {
		for _, eh := range summary.Holdings {
			pct := eh.Value / summary.TotalValue * 100
			summary.SectorAllocation[eh.Sector] += pct
			summary.IndustryAllocation[eh.Industry] += pct
		}
	}

	summary.XIRR = s.portfolioXIRR(summary.Holdings, summary.TotalValue, now)

	for _, h := range watchlist {
		summary.Watchlist = append(summary.Watchlist, s.enrich(ctx, h))
	}

	return summary, nil
}

// enrich values a single holding. On fetch failure the current price falls
// back to the average cost so the position still appears, gain shows flat,
// and the entry is marked Degraded.
func (s *Service) enrich(ctx context.Context, h models.Holding) models.EnrichedHolding {
	eh := models.EnrichedHolding{Holding: h}

	detail, err := s.stocks.Assemble(ctx, h.Symbol)
	if err != nil {
		s.logger.Warn().Str("symbol", h.Symbol).Err(err).Msg("Valuing holding at cost basis")
		eh.Name = h.Symbol
		eh.Sector, eh.Industry = s.classifier.Classify(h.Symbol, "", "")
		eh.CurrentPrice = h.AvgPrice
		eh.Degraded = true
	} else {
		eh.Name = detail.Name
		eh.Sector = detail.Sector
		eh.Industry = detail.Industry
		eh.CurrentPrice = detail.Quote.Price
	}

	eh.Value = h.Shares * eh.CurrentPrice
	eh.Cost = h.Shares * h.AvgPrice
	eh.Gain = eh.Value - eh.Cost
	if eh.Cost > 0 {
		eh.GainPct = eh.Gain / eh.Cost * 100
	}
	return eh
}

// portfolioXIRR builds the cash flow series: one outflow per position at its
// purchase date, one terminal inflow of today's total value.
func (s *Service) portfolioXIRR(holdings []models.EnrichedHolding, totalValue float64, now time.Time) *float64 {
	if len(holdings) == 0 || totalValue <= 0 {
		return nil
	}

	var flows []cashFlow
	for _, eh := range holdings {
		if eh.PurchaseDate.IsZero() {
			continue
		}
		flows = append(flows, cashFlow{
			date:   eh.PurchaseDate,
			amount: -(eh.Shares * eh.AvgPrice),
		})
	}
	if len(flows) == 0 {
		return nil
	}
	flows = append(flows, cashFlow{date: now, amount: totalValue})

	return computeXIRR(flows)
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
