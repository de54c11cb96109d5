package fetch

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/marketlens/marketlens/internal/common"
)

// DefaultMaxRetries is the total attempt budget per fetch.
const DefaultMaxRetries = 3

// Fetcher composes the TTL cache, the sliding rate window, and a retrying
// HTTP GET. The cache key is the full URL; the rate limit key is the URL
// path without query, so all symbols hitting one endpoint share a window.
type Fetcher struct {
	cache      *Cache
	window     *RateWindow
	httpClient *http.Client
	logger     *common.Logger
	maxRetries int
	sleep      func(ctx context.Context, d time.Duration) error // injectable backoff for testing
}

// FetcherOption configures the fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithMaxRetries sets the total attempt budget.
func WithMaxRetries(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxRetries = n
		}
	}
}

// WithSleep replaces the backoff sleep, letting tests record delays
// instead of waiting them out.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) FetcherOption {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

// NewFetcher creates a fetcher over the given cache and rate window.
func NewFetcher(cache *Cache, window *RateWindow, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		cache:      cache,
		window:     window,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     common.NewSilentLogger(),
		maxRetries: DefaultMaxRetries,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// endpointIdentity strips the query string, leaving the URL path that
// identifies the endpoint for rate limiting.
func endpointIdentity(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// Fetch performs a rate-limited, cached, retrying GET and returns the raw
// response body.
//
// The rate slot is recorded before the cache lookup: a cached hit consumes
// the one slot already recorded and no more. When the window is full the
// fetch fails immediately with RateLimitError — no network call, no retry.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, ttl time.Duration) ([]byte, error) {
	endpoint := endpointIdentity(rawURL)

	if !f.window.Record(endpoint) {
		f.logger.Warn().Str("endpoint", endpoint).Msg("Rate window full, rejecting fetch")
		return nil, &RateLimitError{Endpoint: endpoint}
	}

	if body, ok := f.cache.Get(rawURL); ok {
		return body, nil
	}

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		body, err := f.get(ctx, rawURL)
		if err == nil {
			f.cache.Set(rawURL, body, ttl)
			return body, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}

		// Exponential backoff: 2^attempt seconds after each failed attempt,
		// skipped once the budget is spent.
		if attempt < f.maxRetries-1 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			f.logger.Debug().
				Str("url", rawURL).
				Int("attempt", attempt).
				Dur("backoff", delay).
				Msg("Retrying fetch after error")
			if err := f.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
	}

	return nil, lastErr
}

// get performs a single GET attempt and maps the response status onto the
// error taxonomy.
func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Endpoint: endpointIdentity(rawURL)}
	case resp.StatusCode >= 500:
		return nil, &ServerError{Status: resp.StatusCode, URL: rawURL}
	case resp.StatusCode >= 400:
		return nil, &ClientError{Status: resp.StatusCode, URL: rawURL}
	}

	return io.ReadAll(resp.Body)
}
