// Package models defines data structures for MarketLens
package models

import (
	"time"
)

// Quote holds a live price snapshot from the market data provider.
// Immutable once fetched — each refresh produces a new value.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_pct"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// Profile contains company profile data. All fields are optional upstream;
// missing values are defaulted during assembly.
type Profile struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Exchange   string  `json:"exchange"`
	Sector     string  `json:"sector"`   // raw provider string, pre-normalization
	Industry   string  `json:"industry"` // raw provider string, pre-normalization
	MarketCapM float64 `json:"market_cap_m"` // provider reports in millions
	Country    string  `json:"country"`
	Employees  int64   `json:"employees"`
	IPODate    string  `json:"ipo_date"`
	LogoURL    string  `json:"logo_url"`
}

// Metrics is a flat mapping of named fundamental ratios. Any key may be
// absent — absence means the provider did not report the figure, and rules
// that need it are skipped rather than failed.
type Metrics map[string]float64

// Canonical metric keys. The provider client maps its wire names onto these
// so downstream scoring is provider-agnostic.
const (
	MetricPE            = "pe"
	MetricPEG           = "peg"
	MetricPB            = "pb"
	MetricPS            = "ps"
	MetricEPS           = "eps"
	MetricBeta          = "beta"
	MetricDividendYield = "dividend_yield"
	MetricROE           = "roe"
	MetricROA           = "roa"
	MetricDebtToEquity  = "debt_to_equity"
	MetricCurrentRatio  = "current_ratio"
	MetricGrossMargin   = "gross_margin"
	MetricNetMargin     = "net_margin"
	MetricHigh52Week    = "high_52_week"
	MetricLow52Week     = "low_52_week"
	MetricAnalystTarget = "analyst_target"
	MetricAvgVolume     = "avg_volume"
)

// Get returns a metric value and whether it is present.
func (m Metrics) Get(key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key]
	return v, ok
}

// EarningsPeriod is a single reported earnings period.
type EarningsPeriod struct {
	Period      string  `json:"period"`
	ActualEPS   float64 `json:"actual_eps"`
	EstimateEPS float64 `json:"estimate_eps"`
	SurprisePct float64 `json:"surprise_pct"`
}

// FinancialLineItem is one line of a reported financial statement.
type FinancialLineItem struct {
	Concept string  `json:"concept"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
}

// FinancialReport is one reported period's statements. Only the income
// statement is consumed (revenue extraction).
type FinancialReport struct {
	Year            int                 `json:"year"`
	Quarter         int                 `json:"quarter"`
	IncomeStatement []FinancialLineItem `json:"income_statement"`
}

// NewsArticle represents a single company news item.
type NewsArticle struct {
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// Candles holds OHLCV arrays for a symbol over a range.
type Candles struct {
	Open      []float64 `json:"open"`
	High      []float64 `json:"high"`
	Low       []float64 `json:"low"`
	Close     []float64 `json:"close"`
	Volume    []int64   `json:"volume"`
	Timestamp []int64   `json:"timestamp"`
}

// SearchResult is a single symbol lookup hit.
type SearchResult struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// RiskMetrics are illustrative volatility figures derived from available
// inputs plus bounded pseudo-randomness. Not measured data.
type RiskMetrics struct {
	Volatility  float64 `json:"volatility"`   // annualized %, [15, 55]
	SharpeRatio float64 `json:"sharpe_ratio"` // [-0.5, 2.5]
	MaxDrawdown float64 `json:"max_drawdown"` // %, [5, 45]
}

// TechnicalIndicators are illustrative momentum figures. The RSI is bounded
// to [30, 70] and the trend label derives from it plus the day's change.
type TechnicalIndicators struct {
	RSI         float64 `json:"rsi"`
	MACD        float64 `json:"macd"`
	SMA50       float64 `json:"sma_50"`
	SMA200      float64 `json:"sma_200"`
	Trend       string  `json:"trend"`        // bullish, bearish, neutral
	VolumeTrend string  `json:"volume_trend"` // increasing, decreasing, stable
}

// NewsMetrics are illustrative sentiment figures.
type NewsMetrics struct {
	SentimentScore float64 `json:"sentiment_score"` // [-1, 1]
	ArticleCount   int     `json:"article_count"`
	Buzz           float64 `json:"buzz"` // [0, 1]
}

// InsiderActivity is an illustrative insider trading summary.
type InsiderActivity struct {
	NetShares   float64 `json:"net_shares"`
	BuyCount    int     `json:"buy_count"`
	SellCount   int     `json:"sell_count"`
	SignalLabel string  `json:"signal_label"` // accumulating, distributing, neutral
}

// RiskAssessment is the additive-rubric risk score for a stock.
type RiskAssessment struct {
	Level       string  `json:"level"` // Low Risk, Medium Risk, High Risk
	Score       float64 `json:"score"` // 0-10 after clamping
	Explanation string  `json:"explanation"`
}

// Recommendation is the buy/hold/sell scoring for a stock.
type Recommendation struct {
	LongTerm  float64  `json:"long_term"`  // 0-10
	ShortTerm float64  `json:"short_term"` // 0-10
	Dividend  float64  `json:"dividend"`   // 0-10
	Overall   string   `json:"overall"`    // BUY, HOLD, SELL
	Reasons   []string `json:"reasons"`    // ≤5, trigger order
}

// StockDetail is the merged, normalized record for a single symbol.
// Created fresh per fetch cycle and never mutated in place.
type StockDetail struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Exchange   string  `json:"exchange"`
	Sector     string  `json:"sector"`   // canonical
	Industry   string  `json:"industry"` // canonical
	MarketCapB float64 `json:"market_cap_b"`
	Country    string  `json:"country"`
	Employees  int64   `json:"employees"`
	IPODate    string  `json:"ipo_date"`
	LogoURL    string  `json:"logo_url"`

	Quote   Quote   `json:"quote"`
	Metrics Metrics `json:"metrics"`

	QuarterlyRevenue  float64  `json:"quarterly_revenue,omitempty"`
	EarningsGrowthPct *float64 `json:"earnings_growth_pct,omitempty"` // nil when fewer than 2 periods

	// Synthetic sections — deterministic given the seeded source, but
	// illustrative placeholders rather than measured signals.
	RiskMetrics         *RiskMetrics         `json:"risk_metrics,omitempty"`
	TechnicalIndicators *TechnicalIndicators `json:"technical_indicators,omitempty"`
	NewsMetrics         *NewsMetrics         `json:"news_metrics,omitempty"`
	InsiderActivity     *InsiderActivity     `json:"insider_activity,omitempty"`
	SyntheticFields     []string             `json:"synthetic_fields,omitempty"`

	Risk           *RiskAssessment `json:"risk,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`

	Generation  uint64    `json:"-"` // request generation, for stale-result discard
	AssembledAt time.Time `json:"assembled_at"`
}
