// Package app wires configuration, storage, clients, and services into a
// single application container.
package app

import (
	"fmt"
	"net/http"

	"github.com/marketlens/marketlens/internal/clients/finnhub"
	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/fetch"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/sector"
	"github.com/marketlens/marketlens/internal/services/portfolio"
	"github.com/marketlens/marketlens/internal/services/signal"
	"github.com/marketlens/marketlens/internal/services/stock"
	"github.com/marketlens/marketlens/internal/storage/userdb"
)

// App holds all application dependencies.
type App struct {
	Config *common.Config
	Logger *common.Logger

	UserStore interfaces.UserStore
	Market    interfaces.MarketDataClient

	Stocks     interfaces.StockService
	Signals    interfaces.SignalService
	Portfolios interfaces.PortfolioService
}

// New creates the application container from configuration.
func New(cfg *common.Config) (*App, error) {
	logger := common.NewLoggerFromConfig(cfg.Logging)

	store, err := userdb.NewStore(logger, cfg.Storage.UserDB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}

	cache := fetch.NewCache()
	window := fetch.NewRateWindow(cfg.Fetch.WindowSize, cfg.Fetch.GetWindowSpan())
	fetcher := fetch.NewFetcher(cache, window,
		fetch.WithLogger(logger),
		fetch.WithMaxRetries(cfg.Fetch.MaxRetries),
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Clients.Finnhub.GetTimeout()}),
	)

	market := finnhub.NewClient(cfg.Clients.Finnhub.APIKey, fetcher,
		finnhub.WithBaseURL(cfg.Clients.Finnhub.BaseURL),
		finnhub.WithRateLimit(cfg.Clients.Finnhub.RateLimit),
		finnhub.WithLogger(logger),
		finnhub.WithTTLs(finnhub.TTLs{
			Quote:    cfg.Fetch.GetQuoteTTL(),
			Profile:  cfg.Fetch.GetProfileTTL(),
			News:     cfg.Fetch.GetNewsTTL(),
			Earnings: cfg.Fetch.GetEarningsTTL(),
		}),
	)

	if cfg.Clients.Finnhub.APIKey == "" {
		logger.Warn().Msg("No Finnhub API key configured, market data will be empty")
	}

	classifier := sector.NewClassifier()
	stocks := stock.NewService(market, classifier, stock.WithLogger(logger))
	signals := signal.NewService(signal.WithLogger(logger))
	portfolios := portfolio.NewService(stocks, classifier, portfolio.WithLogger(logger))

	return &App{
		Config:     cfg,
		Logger:     logger,
		UserStore:  store,
		Market:     market,
		Stocks:     stocks,
		Signals:    signals,
		Portfolios: portfolios,
	}, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.UserStore != nil {
		if err := a.UserStore.Close(); err != nil {
			return fmt.Errorf("failed to close user store: %w", err)
		}
	}
	return nil
}
