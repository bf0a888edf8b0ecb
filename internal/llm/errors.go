package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrNoAPIKey means the provider requires a key that was not configured.
	ErrNoAPIKey = errors.New("API key not configured")

	// ErrRateLimited means the provider returned 429.
	ErrRateLimited = errors.New("rate limit exceeded (429)")

	// ErrServerOverloaded means the provider returned a 5xx status.
	ErrServerOverloaded = errors.New("provider overloaded")

	// ErrEmptyCompletion means the provider returned no candidates.
	ErrEmptyCompletion = errors.New("no completion returned")
)

// StatusError carries a non-OK HTTP status from a provider.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.Status, e.Body)
}

// IsTransient reports whether an error is worth retrying. Timeouts, rate
// limits, transport failures and provider overload are transient; anything
// else (auth failures, malformed requests, empty completions) is not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerOverloaded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrNoAPIKey) || errors.Is(err, ErrEmptyCompletion) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == 429 || statusErr.Status >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Wrapped transport errors lose their type through some call paths.
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection refused", "connection reset", "timeout", "temporarily unavailable", "eof"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
