// Package finnhub provides a client for the Finnhub market data API
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/fetch"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

const (
	DefaultBaseURL   = "https://finnhub.io/api/v1"
	DefaultRateLimit = 10 // requests per second, client-side courtesy pacing
)

// TTLs holds per-data-kind cache lifetimes. Quotes churn fastest; profile
// and statement data can live much longer.
type TTLs struct {
	Quote    time.Duration
	Profile  time.Duration
	News     time.Duration
	Earnings time.Duration
}

// DefaultTTLs mirrors the tunable defaults: quotes 5m, profile/metrics 30m,
// news/peers/candles 15m, earnings/financials 30m.
func DefaultTTLs() TTLs {
	return TTLs{
		Quote:    5 * time.Minute,
		Profile:  30 * time.Minute,
		News:     15 * time.Minute,
		Earnings: 30 * time.Minute,
	}
}

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client implements the MarketDataClient interface
type Client struct {
	baseURL string
	apiKey  string
	fetcher *fetch.Fetcher
	limiter *rate.Limiter
	logger  *common.Logger
	ttls    TTLs
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the client-side courtesy rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTTLs sets the per-data-kind cache lifetimes
func WithTTLs(ttls TTLs) ClientOption {
	return func(c *Client) {
		c.ttls = ttls
	}
}

// NewClient creates a new Finnhub client routing all GETs through the given
// fetcher for caching, window rate limiting, and retries. An empty apiKey is
// tolerated: every call degrades to empty results instead of failing.
func NewClient(apiKey string, fetcher *fetch.Fetcher, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		ttls:    DefaultTTLs(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// hasKey reports whether an API key is configured. Without one the provider
// rejects everything, so callers short-circuit to empty results.
func (c *Client) hasKey() bool {
	return c.apiKey != ""
}

// get performs a paced, cached GET and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, ttl time.Duration, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	c.logger.Debug().Str("path", path).Msg("Finnhub API request")

	body, err := c.fetcher.Fetch(ctx, reqURL, ttl)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// quoteResponse is the /quote wire format
type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePct     float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
	Volume        int64   `json:"v"`
}

// GetQuote retrieves a live price snapshot
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if !c.hasKey() {
		return &models.Quote{Symbol: symbol}, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	var resp quoteResponse
	if err := c.get(ctx, "/quote", params, c.ttls.Quote, &resp); err != nil {
		return nil, err
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         resp.Current,
		Open:          resp.Open,
		High:          resp.High,
		Low:           resp.Low,
		PreviousClose: resp.PreviousClose,
		Change:        resp.Change,
		ChangePct:     resp.ChangePct,
		Volume:        resp.Volume,
		Timestamp:     time.Unix(resp.Timestamp, 0).UTC(),
	}, nil
}

// profileResponse is the /stock/profile2 wire format
type profileResponse struct {
	Name            string      `json:"name"`
	Exchange        string      `json:"exchange"`
	Sector          string      `json:"sector"`
	FinnhubIndustry string      `json:"finnhubIndustry"`
	MarketCap       flexFloat64 `json:"marketCapitalization"` // millions
	Country         string      `json:"country"`
	Employees       flexFloat64 `json:"employeeTotal"`
	IPO             string      `json:"ipo"`
	Logo            string      `json:"logo"`
}

// GetProfile retrieves the company profile
func (c *Client) GetProfile(ctx context.Context, symbol string) (*models.Profile, error) {
	if !c.hasKey() {
		return &models.Profile{Symbol: symbol}, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	var resp profileResponse
	if err := c.get(ctx, "/stock/profile2", params, c.ttls.Profile, &resp); err != nil {
		return nil, err
	}

	return &models.Profile{
		Symbol:     symbol,
		Name:       resp.Name,
		Exchange:   resp.Exchange,
		Sector:     resp.Sector,
		Industry:   resp.FinnhubIndustry,
		MarketCapM: float64(resp.MarketCap),
		Country:    resp.Country,
		Employees:  int64(resp.Employees),
		IPODate:    resp.IPO,
		LogoURL:    resp.Logo,
	}, nil
}

// metricAliases maps canonical metric keys onto the provider's wire names,
// tried in order. The provider renames fields between plan tiers, hence the
// alias lists.
var metricAliases = []struct {
	canonical string
	aliases   []string
}{
	{models.MetricPE, []string{"peBasicExclExtraTTM", "peTTM", "peNormalizedAnnual"}},
	{models.MetricPEG, []string{"pegRatio", "pegTTM"}},
	{models.MetricPB, []string{"pbQuarterly", "pb", "pbAnnual"}},
	{models.MetricPS, []string{"psTTM", "psAnnual"}},
	{models.MetricEPS, []string{"epsBasicExclExtraItemsTTM", "epsTTM", "epsAnnual"}},
	{models.MetricBeta, []string{"beta"}},
	{models.MetricDividendYield, []string{"dividendYieldIndicatedAnnual", "currentDividendYieldTTM"}},
	{models.MetricROE, []string{"roeTTM", "roeRfy"}},
	{models.MetricROA, []string{"roaTTM", "roaRfy"}},
	{models.MetricDebtToEquity, []string{"totalDebt/totalEquityQuarterly", "totalDebt/totalEquityAnnual"}},
	{models.MetricCurrentRatio, []string{"currentRatioQuarterly", "currentRatioAnnual"}},
	{models.MetricGrossMargin, []string{"grossMarginTTM", "grossMarginAnnual"}},
	{models.MetricNetMargin, []string{"netProfitMarginTTM", "netProfitMarginAnnual"}},
	{models.MetricHigh52Week, []string{"52WeekHigh"}},
	{models.MetricLow52Week, []string{"52WeekLow"}},
	{models.MetricAnalystTarget, []string{"priceTargetMean", "targetMean"}},
	{models.MetricAvgVolume, []string{"10DayAverageTradingVolume", "3MonthAverageTradingVolume"}},
}

// GetMetrics retrieves the flat fundamental ratio mapping
func (c *Client) GetMetrics(ctx context.Context, symbol string) (models.Metrics, error) {
	if !c.hasKey() {
		return models.Metrics{}, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("metric", "all")

	var resp struct {
		Metric map[string]interface{} `json:"metric"`
	}
	if err := c.get(ctx, "/stock/metric", params, c.ttls.Profile, &resp); err != nil {
		return nil, err
	}

	metrics := models.Metrics{}
	for _, m := range metricAliases {
		for _, alias := range m.aliases {
			if raw, ok := resp.Metric[alias]; ok {
				if v, ok := raw.(float64); ok {
					metrics[m.canonical] = v
					break
				}
			}
		}
	}
	return metrics, nil
}

// earningsResponse is the /stock/earnings wire format
type earningsResponse struct {
	Actual      flexFloat64 `json:"actual"`
	Estimate    flexFloat64 `json:"estimate"`
	Period      string      `json:"period"`
	SurprisePct flexFloat64 `json:"surprisePercent"`
}

// GetEarnings retrieves reported earnings periods, most recent first
func (c *Client) GetEarnings(ctx context.Context, symbol string) ([]models.EarningsPeriod, error) {
	if !c.hasKey() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	var resp []earningsResponse
	if err := c.get(ctx, "/stock/earnings", params, c.ttls.Earnings, &resp); err != nil {
		return nil, err
	}

	periods := make([]models.EarningsPeriod, len(resp))
	for i, e := range resp {
		periods[i] = models.EarningsPeriod{
			Period:      e.Period,
			ActualEPS:   float64(e.Actual),
			EstimateEPS: float64(e.Estimate),
			SurprisePct: float64(e.SurprisePct),
		}
	}
	return periods, nil
}

// financialsResponse is the /stock/financials-reported wire format
type financialsResponse struct {
	Data []struct {
		Year    int `json:"year"`
		Quarter int `json:"quarter"`
		Report  struct {
			IncomeStatement []struct {
				Concept string      `json:"concept"`
				Label   string      `json:"label"`
				Value   flexFloat64 `json:"value"`
			} `json:"ic"`
		} `json:"report"`
	} `json:"data"`
}

// GetFinancials retrieves reported financial statements, most recent first
func (c *Client) GetFinancials(ctx context.Context, symbol string) ([]models.FinancialReport, error) {
	if !c.hasKey() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("freq", "quarterly")

	var resp financialsResponse
	if err := c.get(ctx, "/stock/financials-reported", params, c.ttls.Earnings, &resp); err != nil {
		return nil, err
	}

	reports := make([]models.FinancialReport, len(resp.Data))
	for i, d := range resp.Data {
		report := models.FinancialReport{
			Year:    d.Year,
			Quarter: d.Quarter,
		}
		for _, item := range d.Report.IncomeStatement {
			report.IncomeStatement = append(report.IncomeStatement, models.FinancialLineItem{
				Concept: item.Concept,
				Label:   item.Label,
				Value:   float64(item.Value),
			})
		}
		reports[i] = report
	}
	return reports, nil
}

// GetPeers retrieves peer symbols
func (c *Client) GetPeers(ctx context.Context, symbol string) ([]string, error) {
	if !c.hasKey() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	var peers []string
	if err := c.get(ctx, "/stock/peers", params, c.ttls.News, &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

// candleResponse is the /stock/candle wire format
type candleResponse struct {
	Open      []float64 `json:"o"`
	High      []float64 `json:"h"`
	Low       []float64 `json:"l"`
	Close     []float64 `json:"c"`
	Volume    []int64   `json:"v"`
	Timestamp []int64   `json:"t"`
	Status    string    `json:"s"`
}

// GetCandles retrieves OHLCV arrays for a date range
func (c *Client) GetCandles(ctx context.Context, symbol string, from, to time.Time) (*models.Candles, error) {
	if !c.hasKey() {
		return &models.Candles{}, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", "D")
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("to", strconv.FormatInt(to.Unix(), 10))

	var resp candleResponse
	if err := c.get(ctx, "/stock/candle", params, c.ttls.News, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "ok" {
		return &models.Candles{}, nil
	}

	return &models.Candles{
		Open:      resp.Open,
		High:      resp.High,
		Low:       resp.Low,
		Close:     resp.Close,
		Volume:    resp.Volume,
		Timestamp: resp.Timestamp,
	}, nil
}

// newsResponse is the /company-news wire format
type newsResponse struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
}

// GetNews retrieves company news for a date range
func (c *Client) GetNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error) {
	if !c.hasKey() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var resp []newsResponse
	if err := c.get(ctx, "/company-news", params, c.ttls.News, &resp); err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, len(resp))
	for i, item := range resp {
		articles[i] = models.NewsArticle{
			Headline:    item.Headline,
			Summary:     item.Summary,
			Source:      item.Source,
			URL:         item.URL,
			PublishedAt: time.Unix(item.Datetime, 0).UTC(),
		}
	}
	return articles, nil
}

// searchResponse is the /search wire format
type searchResponse struct {
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"result"`
}

// Search performs free-text symbol lookup
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if !c.hasKey() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)

	var resp searchResponse
	if err := c.get(ctx, "/search", params, c.ttls.News, &resp); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, len(resp.Result))
	for i, r := range resp.Result {
		results[i] = models.SearchResult{
			Symbol:      r.Symbol,
			Description: r.Description,
			Type:        r.Type,
		}
	}
	return results, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
