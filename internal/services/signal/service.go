// Package signal scores assembled stock-detail records: an additive risk
// rubric and a long/short/dividend recommendation.
package signal

import (
	"fmt"
	"strings"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

const (
	RiskLevelLow    = "Low Risk"
	RiskLevelMedium = "Medium Risk"
	RiskLevelHigh   = "High Risk"

	OverallBuy  = "BUY"
	OverallHold = "HOLD"
	OverallSell = "SELL"

	maxReasons = 5
)

// Service implements the SignalService interface
type Service struct {
	logger *common.Logger
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a signal scoring service
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score derives the risk assessment and recommendation for a detail record.
// Absent metric fields skip their rules silently; a record with no metrics
// at all still scores, landing on the neutral defaults.
func (s *Service) Score(detail *models.StockDetail) (*models.RiskAssessment, *models.Recommendation) {
	risk := s.assessRisk(detail)
	rec := s.recommend(detail)

	s.logger.Debug().
		Str("symbol", detail.Symbol).
		Str("risk", risk.Level).
		Str("overall", rec.Overall).
		Msg("Scored stock")

	return risk, rec
}

// assessRisk applies the additive rubric. Each factor contributes points on
// fixed thresholds; the score is clamped to 10 but the level is decided
// before any single factor can dominate past the cap.
func (s *Service) assessRisk(detail *models.StockDetail) *models.RiskAssessment {
	score := 0.0
	var factors []string

	if beta, ok := detail.Metrics.Get(models.MetricBeta); ok {
		switch {
		case beta > 1.5:
			score += 3
			factors = append(factors, fmt.Sprintf("high beta (%.2f)", beta))
		case beta > 1.2:
			score += 2
			factors = append(factors, fmt.Sprintf("elevated beta (%.2f)", beta))
		case beta > 1.0:
			score += 1
			factors = append(factors, fmt.Sprintf("above-market beta (%.2f)", beta))
		}
	}

	if pe, ok := detail.Metrics.Get(models.MetricPE); ok {
		switch {
		case pe > 30:
			score += 3
			factors = append(factors, fmt.Sprintf("stretched valuation (P/E %.1f)", pe))
		case pe > 20:
			score += 2
			factors = append(factors, fmt.Sprintf("rich valuation (P/E %.1f)", pe))
		case pe > 15:
			score += 1
			factors = append(factors, fmt.Sprintf("moderate valuation (P/E %.1f)", pe))
		}
	}

	// Unlike the ratio rules, the cap rule has no presence guard: a missing
	// profile leaves cap 0, which lands in the smallest bucket.
	switch {
	case detail.MarketCapB < 2:
		score += 3
		factors = append(factors, "micro/small cap")
	case detail.MarketCapB < 10:
		score += 2
		factors = append(factors, "mid cap")
	case detail.MarketCapB < 50:
		score += 1
		factors = append(factors, "smaller large cap")
	}

	if de, ok := detail.Metrics.Get(models.MetricDebtToEquity); ok {
		switch {
		case de > 1:
			score += 2
			factors = append(factors, fmt.Sprintf("high leverage (D/E %.2f)", de))
		case de > 0.5:
			score += 1
			factors = append(factors, fmt.Sprintf("moderate leverage (D/E %.2f)", de))
		}
	}

	level := RiskLevelLow
	switch {
	case score >= 6:
		level = RiskLevelHigh
	case score >= 3:
		level = RiskLevelMedium
	}

	if score > 10 {
		score = 10
	}

	explanation := "No elevated risk factors identified"
	if len(factors) > 0 {
		explanation = "Driven by " + strings.Join(factors, ", ")
	}

	return &models.RiskAssessment{
		Level:       level,
		Score:       score,
		Explanation: explanation,
	}
}

// recommend scores the long-term, short-term, and dividend axes. Long and
// short start neutral at 5 and move on fundamentals and momentum; dividend
// is pure yield. The overall label averages all three axes, so a
// non-dividend payer needs stronger fundamentals or momentum to reach BUY.
// Reasons record rule hits in trigger order, capped at 5.
func (s *Service) recommend(detail *models.StockDetail) *models.Recommendation {
	longTerm := 5.0
	shortTerm := 5.0
	var reasons []string

	addReason := func(reason string) {
		if len(reasons) < maxReasons {
			reasons = append(reasons, reason)
		}
	}

	if pe, ok := detail.Metrics.Get(models.MetricPE); ok && pe < 15 {
		longTerm++
		addReason(fmt.Sprintf("Attractive valuation at P/E %.1f", pe))
	}
	if roe, ok := detail.Metrics.Get(models.MetricROE); ok && roe > 15 {
		longTerm++
		addReason(fmt.Sprintf("Strong return on equity (%.1f%%)", roe))
	}
	if de, ok := detail.Metrics.Get(models.MetricDebtToEquity); ok && de < 0.5 {
		longTerm++
		addReason("Conservative balance sheet")
	}
	if cr, ok := detail.Metrics.Get(models.MetricCurrentRatio); ok && cr > 1.5 {
		longTerm++
		addReason("Healthy liquidity position")
	}
	if gm, ok := detail.Metrics.Get(models.MetricGrossMargin); ok && gm > 30 {
		longTerm++
		addReason(fmt.Sprintf("Solid gross margin (%.1f%%)", gm))
	}

	switch {
	case detail.Quote.ChangePct > 5:
		shortTerm += 2
		addReason(fmt.Sprintf("Strong upward momentum (%.1f%% today)", detail.Quote.ChangePct))
	case detail.Quote.ChangePct < -5:
		shortTerm -= 2
		addReason(fmt.Sprintf("Sharp selloff (%.1f%% today)", detail.Quote.ChangePct))
	}

	if detail.TechnicalIndicators != nil && detail.TechnicalIndicators.Trend == "bullish" {
		shortTerm++
		addReason("Bullish technical trend")
	}

	if avgVol, ok := detail.Metrics.Get(models.MetricAvgVolume); ok && avgVol > 0 {
		if float64(detail.Quote.Volume) > 1.5*avgVol {
			shortTerm++
			addReason("Volume running well above average")
		}
	}

	dividend := 0.0
	if yield, ok := detail.Metrics.Get(models.MetricDividendYield); ok && yield > 0 {
		dividend = yield * 2
		if dividend > 10 {
			dividend = 10
		}
	}

	longTerm = clampScore(longTerm)
	shortTerm = clampScore(shortTerm)

	avg := (longTerm + shortTerm + dividend) / 3
	overall := OverallHold
	switch {
	case avg >= 7:
		overall = OverallBuy
	case avg <= 4:
		overall = OverallSell
	}

	return &models.Recommendation{
		LongTerm:  longTerm,
		ShortTerm: shortTerm,
		Dividend:  dividend,
		Overall:   overall,
		Reasons:   reasons,
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// Ensure Service implements SignalService
var _ interfaces.SignalService = (*Service)(nil)
