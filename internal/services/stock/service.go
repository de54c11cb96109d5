// Package stock assembles normalized stock-detail records from the market
// data provider.
package stock

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
	"github.com/marketlens/marketlens/internal/sector"
)

// Service implements the StockService interface
type Service struct {
	client     interfaces.MarketDataClient
	classifier *sector.Classifier
	logger     *common.Logger
	now        func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	genMu       sync.Mutex
	generations map[string]uint64
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the clock used for assembly timestamps
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithRand sets the pseudo-random source backing the synthetic sections,
// letting tests pin a seed.
func WithRand(rng *rand.Rand) ServiceOption {
	return func(s *Service) {
		s.rng = rng
	}
}

// NewService creates a stock assembly service
func NewService(client interfaces.MarketDataClient, classifier *sector.Classifier, opts ...ServiceOption) *Service {
	s := &Service{
		client:      client,
		classifier:  classifier,
		logger:      common.NewSilentLogger(),
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextGeneration bumps and returns the symbol's request generation.
func (s *Service) nextGeneration(symbol string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[symbol]++
	return s.generations[symbol]
}

// LatestGeneration returns the most recent assembly generation for a symbol.
// A result whose Generation is older than this has been superseded and
// should be discarded.
func (s *Service) LatestGeneration(symbol string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[strings.ToUpper(symbol)]
}

// Assemble merges quote, profile, metrics, earnings, and financials into a
// fresh StockDetail. The five sources are fetched concurrently; the quote is
// mandatory and everything else degrades to defaults.
func (s *Service) Assemble(ctx context.Context, symbol string) (*models.StockDetail, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	gen := s.nextGeneration(symbol)

	var (
		wg sync.WaitGroup

		quote    *models.Quote
		quoteErr error

		profile    *models.Profile
		profileErr error

		metrics    models.Metrics
		metricsErr error

		earnings    []models.EarningsPeriod
		earningsErr error

		financials    []models.FinancialReport
		financialsErr error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		quote, quoteErr = s.client.GetQuote(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		profile, profileErr = s.client.GetProfile(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		metrics, metricsErr = s.client.GetMetrics(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		earnings, earningsErr = s.client.GetEarnings(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		financials, financialsErr = s.client.GetFinancials(ctx, symbol)
	}()
	wg.Wait()

	// The quote is the existence check. No quote, or a zero price, means the
	// symbol is not tradeable as far as the provider is concerned.
	if quoteErr != nil || quote == nil || quote.Price == 0 {
		if quoteErr != nil {
			s.logger.Warn().Str("symbol", symbol).Err(quoteErr).Msg("Quote fetch failed")
		}
		return nil, &InvalidSymbolError{Symbol: symbol}
	}

	for _, e := range []struct {
		name string
		err  error
	}{
		{"profile", profileErr},
		{"metrics", metricsErr},
		{"earnings", earningsErr},
		{"financials", financialsErr},
	} {
		if e.err != nil {
			s.logger.Debug().Str("symbol", symbol).Str("source", e.name).Err(e.err).Msg("Optional source failed, continuing")
		}
	}

	if profileErr != nil || profile == nil {
		profile = &models.Profile{Symbol: symbol}
	}
	if metricsErr != nil || metrics == nil {
		metrics = models.Metrics{}
	}

	detail := &models.StockDetail{
		Symbol:      symbol,
		Name:        profile.Name,
		Exchange:    profile.Exchange,
		MarketCapB:  profile.MarketCapM / 1000,
		Country:     profile.Country,
		Employees:   profile.Employees,
		IPODate:     profile.IPODate,
		LogoURL:     profile.LogoURL,
		Quote:       *quote,
		Metrics:     metrics,
		Generation:  gen,
		AssembledAt: s.now(),
	}

	if detail.Name == "" {
		detail.Name = fmt.Sprintf("%s Corporation", symbol)
	}

	detail.Sector, detail.Industry = s.classifier.Classify(symbol, profile.Sector, profile.Industry)

	if earningsErr == nil {
		detail.EarningsGrowthPct = earningsGrowth(earnings)
	}
	if financialsErr == nil {
		detail.QuarterlyRevenue = latestQuarterlyRevenue(financials)
	}

	s.applySynthetics(detail)

	return detail, nil
}

// earningsGrowth computes the EPS growth percentage between the two most
// recent periods. Returns nil with fewer than two periods or a zero base.
func earningsGrowth(periods []models.EarningsPeriod) *float64 {
	if len(periods) < 2 {
		return nil
	}
	latest, previous := periods[0].ActualEPS, periods[1].ActualEPS
	if previous == 0 {
		return nil
	}
	growth := (latest - previous) / previous * 100
	return &growth
}

// latestQuarterlyRevenue scans the most recent report's income statement for
// a revenue line. Concept names vary across filers, so the match is a
// substring check on concept and label.
func latestQuarterlyRevenue(reports []models.FinancialReport) float64 {
	if len(reports) == 0 {
		return 0
	}
	for _, item := range reports[0].IncomeStatement {
		concept := strings.ToLower(item.Concept)
		label := strings.ToLower(item.Label)
		if strings.Contains(concept, "revenue") || strings.Contains(label, "revenue") {
			return item.Value
		}
	}
	return 0
}

// Ensure Service implements StockService
var _ interfaces.StockService = (*Service)(nil)
