package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFetcher builds a fetcher with recorded (not slept) backoff delays.
func testFetcher(t *testing.T, maxRetries int) (*Fetcher, *[]time.Duration) {
	t.Helper()
	delays := &[]time.Duration{}
	f := NewFetcher(
		NewCache(),
		NewRateWindow(30, 60*time.Second),
		WithMaxRetries(maxRetries),
		WithSleep(func(_ context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return nil
		}),
	)
	return f, delays
}

func TestFetcher_SuccessStoresInCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"c":180.5}`))
	}))
	defer srv.Close()

	f, _ := testFetcher(t, 3)

	body, err := f.Fetch(context.Background(), srv.URL+"/quote?symbol=AAPL", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, `{"c":180.5}`, string(body))

	// Second fetch is served from cache — no additional network call.
	body, err = f.Fetch(context.Background(), srv.URL+"/quote?symbol=AAPL", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, `{"c":180.5}`, string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// The rate slot is recorded before the cache lookup, so a cached hit costs
// exactly the one slot recorded at entry. This is the ordering the fetcher
// commits to.
func TestFetcher_CachedHitConsumesOneRateSlot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	window := NewRateWindow(30, 60*time.Second)
	f := NewFetcher(NewCache(), window)

	_, err := f.Fetch(context.Background(), srv.URL+"/quote?symbol=AAPL", time.Minute)
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), srv.URL+"/quote?symbol=AAPL", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2, window.Count("/quote"))
}

func TestFetcher_RateLimitedWithoutNetworkCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	window := NewRateWindow(30, 60*time.Second)
	f := NewFetcher(NewCache(), window)

	// Fill the window by hand — distinct query strings defeat the cache, so
	// every recorded slot corresponds to a would-be network call.
	for i := 0; i < 30; i++ {
		require.True(t, window.Record("/quote"))
	}

	_, err := f.Fetch(context.Background(), srv.URL+"/quote?symbol=AAPL", time.Minute)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "rate limited fetch must not hit the network")
}

func TestFetcher_RetriesServerErrorWithBackoff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`recovered`))
	}))
	defer srv.Close()

	f, delays := testFetcher(t, 3)

	body, err := f.Fetch(context.Background(), srv.URL+"/quote", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, `recovered`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	// Backoff after attempt 0 is 2^0=1s, after attempt 1 is 2^1=2s.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *delays)
}

func TestFetcher_ExhaustedRetriesSurfaceLastError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f, delays := testFetcher(t, 3)

	_, err := f.Fetch(context.Background(), srv.URL+"/quote", time.Minute)
	require.Error(t, err)
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.Len(t, *delays, 2, "3 attempts produce 2 backoff delays")
}

func TestFetcher_ClientErrorShortCircuits(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f, delays := testFetcher(t, 3)

	_, err := f.Fetch(context.Background(), srv.URL+"/quote", time.Minute)
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
	assert.Empty(t, *delays)
}

func TestFetcher_Upstream429IsRateLimitedNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f, delays := testFetcher(t, 3)

	_, err := f.Fetch(context.Background(), srv.URL+"/quote", time.Minute)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, *delays)
}

func TestEndpointIdentity_StripsQuery(t *testing.T) {
	assert.Equal(t, "/api/v1/quote", endpointIdentity("https://finnhub.io/api/v1/quote?symbol=AAPL&token=x"))
	assert.Equal(t, "/api/v1/stock/profile2", endpointIdentity("https://finnhub.io/api/v1/stock/profile2?symbol=MSFT"))
}
