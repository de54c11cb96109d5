package finnhub

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/fetch"
	"github.com/marketlens/marketlens/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher := fetch.NewFetcher(fetch.NewCache(), fetch.NewRateWindow(0, 0))
	client := NewClient("test-key", fetcher, WithBaseURL(server.URL))
	return client, server
}

func TestGetQuote_MapsWireFormat(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		fmt.Fprint(w, `{"c":185.5,"d":2.3,"dp":1.25,"h":186.0,"l":183.1,"o":184.0,"pc":183.2,"t":1700000000,"v":52000000}`)
	})

	quote, err := client.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 185.5, quote.Price)
	assert.Equal(t, 2.3, quote.Change)
	assert.Equal(t, 1.25, quote.ChangePct)
	assert.Equal(t, 183.2, quote.PreviousClose)
	assert.Equal(t, int64(52000000), quote.Volume)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), quote.Timestamp)
}

func TestGetProfile_MapsWireFormat(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/profile2", r.URL.Path)
		fmt.Fprint(w, `{"name":"Apple Inc","exchange":"NASDAQ","finnhubIndustry":"Technology","marketCapitalization":2890000.5,"country":"US","employeeTotal":"161000","ipo":"1980-12-12","logo":"https://example.com/aapl.png"}`)
	})

	profile, err := client.GetProfile(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc", profile.Name)
	assert.Equal(t, "NASDAQ", profile.Exchange)
	assert.Equal(t, "Technology", profile.Industry)
	assert.Equal(t, 2890000.5, profile.MarketCapM)
	assert.Equal(t, int64(161000), profile.Employees)
	assert.Equal(t, "1980-12-12", profile.IPODate)
}

func TestGetMetrics_CanonicalKeyMapping(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/metric", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("metric"))
		fmt.Fprint(w, `{"metric":{"peTTM":28.4,"beta":1.29,"roeTTM":147.2,"52WeekHigh":199.6,"totalDebt/totalEquityQuarterly":1.78,"unknownField":42}}`)
	})

	metrics, err := client.GetMetrics(context.Background(), "AAPL")
	require.NoError(t, err)

	pe, ok := metrics.Get(models.MetricPE)
	require.True(t, ok)
	assert.Equal(t, 28.4, pe)

	beta, ok := metrics.Get(models.MetricBeta)
	require.True(t, ok)
	assert.Equal(t, 1.29, beta)

	de, ok := metrics.Get(models.MetricDebtToEquity)
	require.True(t, ok)
	assert.Equal(t, 1.78, de)

	high, ok := metrics.Get(models.MetricHigh52Week)
	require.True(t, ok)
	assert.Equal(t, 199.6, high)

	// Unmapped wire names are dropped, absent canonical keys stay absent.
	_, ok = metrics.Get(models.MetricDividendYield)
	assert.False(t, ok)
	assert.Len(t, metrics, 4)
}

func TestGetEarnings_MostRecentFirst(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"actual":2.18,"estimate":2.10,"period":"2025-06-30","surprisePercent":3.8},{"actual":1.88,"estimate":1.94,"period":"2025-03-31","surprisePercent":-3.1}]`)
	})

	earnings, err := client.GetEarnings(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, earnings, 2)

	assert.Equal(t, "2025-06-30", earnings[0].Period)
	assert.Equal(t, 2.18, earnings[0].ActualEPS)
	assert.Equal(t, -3.1, earnings[1].SurprisePct)
}

func TestGetFinancials_StringValuesTolerated(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "quarterly", r.URL.Query().Get("freq"))
		fmt.Fprint(w, `{"data":[{"year":2025,"quarter":2,"report":{"ic":[{"concept":"us-gaap_Revenues","label":"Total revenue","value":"85498000000"},{"concept":"us-gaap_NetIncomeLoss","label":"Net income","value":21448000000}]}}]}`)
	})

	reports, err := client.GetFinancials(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, reports, 1)

	assert.Equal(t, 2025, reports[0].Year)
	assert.Equal(t, 2, reports[0].Quarter)
	require.Len(t, reports[0].IncomeStatement, 2)
	assert.Equal(t, 85498000000.0, reports[0].IncomeStatement[0].Value)
	assert.Equal(t, 21448000000.0, reports[0].IncomeStatement[1].Value)
}

func TestGetCandles_NoDataStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"s":"no_data"}`)
	})

	candles, err := client.GetCandles(context.Background(), "ZZZZ", time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.Empty(t, candles.Close)
}

func TestSearch_MapsResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"count":2,"result":[{"description":"APPLE INC","displaySymbol":"AAPL","symbol":"AAPL","type":"Common Stock"},{"description":"APPLE HOSPITALITY REIT INC","displaySymbol":"APLE","symbol":"APLE","type":"REIT"}]}`)
	})

	results, err := client.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "AAPL", results[0].Symbol)
	assert.Equal(t, "APPLE INC", results[0].Description)
	assert.Equal(t, "REIT", results[1].Type)
}

func TestNoAPIKey_DegradesWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)

	fetcher := fetch.NewFetcher(fetch.NewCache(), fetch.NewRateWindow(0, 0))
	client := NewClient("", fetcher, WithBaseURL(server.URL))

	ctx := context.Background()

	quote, err := client.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Zero(t, quote.Price)

	results, err := client.Search(ctx, "apple")
	require.NoError(t, err)
	assert.Empty(t, results)

	earnings, err := client.GetEarnings(ctx, "AAPL")
	require.NoError(t, err)
	assert.Empty(t, earnings)

	assert.Equal(t, int32(0), calls.Load())
}
