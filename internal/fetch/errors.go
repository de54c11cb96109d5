package fetch

import (
	"errors"
	"fmt"
)

// RateLimitError indicates the sliding window for an endpoint is full, or the
// upstream returned 429. The caller must wait — no retry is attempted.
type RateLimitError struct {
	Endpoint string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: endpoint %s", e.Endpoint)
}

// ServerError indicates an upstream 5xx response. Retryable with backoff.
type ServerError struct {
	Status int
	URL    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d from %s", e.Status, e.URL)
}

// ClientError indicates an upstream 4xx response other than 429. Not
// retryable — it signals bad input.
type ClientError struct {
	Status int
	URL    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error: status %d from %s", e.Status, e.URL)
}

// IsRateLimited reports whether err is a rate limit failure.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// IsClientError reports whether err is a terminal upstream 4xx failure.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsRetryable reports whether err may succeed on retry: upstream 5xx and
// generic transport failures qualify; rate limits and 4xx do not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsRateLimited(err) || IsClientError(err) {
		return false
	}
	return true
}
