package fetch

import (
	"sync"
	"time"
)

// Default window: 30 requests per trailing 60 seconds per endpoint.
const (
	DefaultWindowSize = 30
	DefaultWindowSpan = 60 * time.Second
)

// RateWindow is a sliding-window rate limiter keyed by endpoint identity
// (URL path without query). Each endpoint holds an ordered sequence of
// request timestamps; entries older than the window span are pruned on
// every check.
type RateWindow struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	size    int
	span    time.Duration
	now     func() time.Time // injectable clock for testing
}

// RateWindowOption configures the rate window.
type RateWindowOption func(*RateWindow)

// WithWindowClock sets the clock used for pruning and recording.
func WithWindowClock(now func() time.Time) RateWindowOption {
	return func(w *RateWindow) {
		w.now = now
	}
}

// NewRateWindow creates a sliding-window limiter allowing size requests per
// span per endpoint. Zero or negative arguments fall back to the defaults.
func NewRateWindow(size int, span time.Duration, opts ...RateWindowOption) *RateWindow {
	if size <= 0 {
		size = DefaultWindowSize
	}
	if span <= 0 {
		span = DefaultWindowSpan
	}
	w := &RateWindow{
		windows: make(map[string][]time.Time),
		size:    size,
		span:    span,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Record prunes the endpoint's window and, if a slot is free, records the
// current timestamp and returns true. Returns false when the window is full
// — the caller must fail with a rate limit error without touching the
// network.
func (w *RateWindow) Record(endpoint string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	pruned := w.prune(endpoint, now)
	if len(pruned) >= w.size {
		w.windows[endpoint] = pruned
		return false
	}
	w.windows[endpoint] = append(pruned, now)
	return true
}

// Count returns the number of in-window timestamps for endpoint.
func (w *RateWindow) Count(endpoint string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	pruned := w.prune(endpoint, w.now())
	w.windows[endpoint] = pruned
	return len(pruned)
}

// prune drops timestamps older than the trailing span. Timestamps are
// appended in order, so the first in-window index splits the slice.
func (w *RateWindow) prune(endpoint string, now time.Time) []time.Time {
	stamps := w.windows[endpoint]
	cutoff := now.Add(-w.span)
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}
