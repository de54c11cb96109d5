package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/models"
)

func detailWith(marketCapB float64, metrics models.Metrics) *models.StockDetail {
	return &models.StockDetail{
		Symbol:     "TEST",
		MarketCapB: marketCapB,
		Metrics:    metrics,
	}
}

func TestAssessRisk_AllFactorsClampToTen(t *testing.T) {
	// beta 2.0 (+3), P/E 35 (+3), cap 1B (+3), D/E 1.2 (+2) = raw 11.
	detail := detailWith(1, models.Metrics{
		models.MetricBeta:         2.0,
		models.MetricPE:           35,
		models.MetricDebtToEquity: 1.2,
	})

	risk, _ := NewService().Score(detail)

	assert.Equal(t, RiskLevelHigh, risk.Level)
	assert.Equal(t, 10.0, risk.Score)
	assert.Contains(t, risk.Explanation, "high beta")
}

func TestAssessRisk_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		capB      float64
		metrics   models.Metrics
		wantScore float64
		wantLevel string
	}{
		{
			name:      "mega cap with calm metrics is low risk",
			capB:      2500,
			metrics:   models.Metrics{models.MetricBeta: 0.9, models.MetricPE: 12},
			wantScore: 0,
			wantLevel: RiskLevelLow,
		},
		{
			name:      "beta boundary 1.2 is exclusive",
			capB:      100,
			metrics:   models.Metrics{models.MetricBeta: 1.2},
			wantScore: 1,
			wantLevel: RiskLevelLow,
		},
		{
			name:      "medium risk at score 3",
			capB:      100,
			metrics:   models.Metrics{models.MetricBeta: 1.3, models.MetricPE: 16},
			wantScore: 3,
			wantLevel: RiskLevelMedium,
		},
		{
			name:      "mid cap with rich valuation and leverage",
			capB:      5,
			metrics:   models.Metrics{models.MetricPE: 25, models.MetricDebtToEquity: 0.8},
			wantScore: 5,
			wantLevel: RiskLevelMedium,
		},
		{
			name:      "small cap alone scores 3",
			capB:      1.5,
			metrics:   models.Metrics{},
			wantScore: 3,
			wantLevel: RiskLevelMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, _ := NewService().Score(detailWith(tt.capB, tt.metrics))
			assert.Equal(t, tt.wantScore, risk.Score)
			assert.Equal(t, tt.wantLevel, risk.Level)
		})
	}
}

func TestAssessRisk_UnknownCapReadsAsMicroCap(t *testing.T) {
	// A record with no profile carries cap 0, which deliberately lands in
	// the smallest bucket: an unprofiled symbol scores maximum size risk
	// rather than skipping the rule the way absent ratios do.
	risk, _ := NewService().Score(detailWith(0, models.Metrics{}))

	assert.Equal(t, 3.0, risk.Score)
	assert.Equal(t, RiskLevelMedium, risk.Level)
	assert.Contains(t, risk.Explanation, "micro/small cap")
}

func TestAssessRisk_AbsentMetricsSkipRules(t *testing.T) {
	// No beta, P/E, or D/E: only the market cap rule can contribute.
	risk, _ := NewService().Score(detailWith(500, models.Metrics{}))

	assert.Equal(t, 0.0, risk.Score)
	assert.Equal(t, RiskLevelLow, risk.Level)
	assert.Equal(t, "No elevated risk factors identified", risk.Explanation)
}

func TestRecommend_StrongFundamentalsBuy(t *testing.T) {
	detail := detailWith(2500, models.Metrics{
		models.MetricPE:            12,
		models.MetricROE:           22,
		models.MetricDebtToEquity:  0.3,
		models.MetricCurrentRatio:  2.1,
		models.MetricGrossMargin:   45,
		models.MetricDividendYield: 4.0,
	})
	detail.Quote.ChangePct = 6.0

	_, rec := NewService().Score(detail)

	// Long: 5 + 5 rules = 10. Short: 5 + 2 momentum = 7. Dividend: 4×2 = 8.
	// Three-axis average 25/3 ≈ 8.3 → BUY.
	assert.Equal(t, 10.0, rec.LongTerm)
	assert.Equal(t, 7.0, rec.ShortTerm)
	assert.Equal(t, 8.0, rec.Dividend)
	assert.Equal(t, OverallBuy, rec.Overall)
	assert.Len(t, rec.Reasons, 5)
	assert.Contains(t, rec.Reasons[0], "Attractive valuation")
}

func TestRecommend_OverallAveragesAllThreeAxes(t *testing.T) {
	// Perfect fundamentals but no dividend: long 10, short 5, dividend 0.
	// The three-axis average is 5.0, which is HOLD, not BUY.
	detail := detailWith(2500, models.Metrics{
		models.MetricPE:           12,
		models.MetricROE:          22,
		models.MetricDebtToEquity: 0.3,
		models.MetricCurrentRatio: 2.1,
		models.MetricGrossMargin:  45,
	})

	_, rec := NewService().Score(detail)

	assert.Equal(t, 10.0, rec.LongTerm)
	assert.Equal(t, 5.0, rec.ShortTerm)
	assert.Equal(t, 0.0, rec.Dividend)
	assert.Equal(t, OverallHold, rec.Overall)
}

func TestRecommend_NoMetricsReadsAsSell(t *testing.T) {
	_, rec := NewService().Score(detailWith(100, models.Metrics{}))

	// Both directional axes sit at neutral 5, but a zero dividend drags the
	// three-axis average to 10/3 ≈ 3.3, under the SELL threshold.
	assert.Equal(t, 5.0, rec.LongTerm)
	assert.Equal(t, 5.0, rec.ShortTerm)
	assert.Equal(t, 0.0, rec.Dividend)
	assert.Equal(t, OverallSell, rec.Overall)
	assert.Empty(t, rec.Reasons)
}

func TestRecommend_SelloffDragsShortTerm(t *testing.T) {
	detail := detailWith(100, models.Metrics{})
	detail.Quote.ChangePct = -7.5

	_, rec := NewService().Score(detail)

	assert.Equal(t, 3.0, rec.ShortTerm)
	assert.Equal(t, OverallSell, rec.Overall) // avg (5+3+0)/3 ≈ 2.7 → SELL
	require.Len(t, rec.Reasons, 1)
	assert.Contains(t, rec.Reasons[0], "selloff")
}

func TestRecommend_BullishTrendAndVolume(t *testing.T) {
	detail := detailWith(100, models.Metrics{
		models.MetricAvgVolume: 1000000,
	})
	detail.Quote.Volume = 2000000
	detail.TechnicalIndicators = &models.TechnicalIndicators{Trend: "bullish"}

	_, rec := NewService().Score(detail)

	assert.Equal(t, 7.0, rec.ShortTerm)
	assert.Contains(t, rec.Reasons, "Bullish technical trend")
	assert.Contains(t, rec.Reasons, "Volume running well above average")
}

func TestRecommend_DividendScore(t *testing.T) {
	tests := []struct {
		yield float64
		want  float64
	}{
		{1.5, 3.0},
		{4.0, 8.0},
		{6.0, 10.0}, // capped
	}

	for _, tt := range tests {
		detail := detailWith(100, models.Metrics{models.MetricDividendYield: tt.yield})
		_, rec := NewService().Score(detail)
		assert.Equal(t, tt.want, rec.Dividend, "yield=%v", tt.yield)
	}
}

func TestRecommend_ReasonsCappedAtFive(t *testing.T) {
	detail := detailWith(2500, models.Metrics{
		models.MetricPE:           12,
		models.MetricROE:          22,
		models.MetricDebtToEquity: 0.3,
		models.MetricCurrentRatio: 2.1,
		models.MetricGrossMargin:  45,
		models.MetricAvgVolume:    1000000,
	})
	detail.Quote.ChangePct = 6.0
	detail.Quote.Volume = 5000000
	detail.TechnicalIndicators = &models.TechnicalIndicators{Trend: "bullish"}

	_, rec := NewService().Score(detail)

	// Eight rules fire but only the first five reasons are kept.
	assert.Len(t, rec.Reasons, 5)
}
