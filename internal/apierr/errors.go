// Package apierr provides shared error sentinels for HTTP-based providers
// (hosted LLMs, the local model server, the video platform).
//
// Adapters classify status codes into these sentinels at their boundary with
// fmt.Errorf("%s: %w", msg, sentinel). Callers check with errors.Is.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrUnavailable indicates a server-side failure (5xx) or a model still loading.
	ErrUnavailable = errors.New("service unavailable")
)

// FromStatus classifies a non-2xx HTTP status code.
// message is the provider's error text; it prefixes the returned error.
// Returns nil for 2xx codes.
func FromStatus(code int, message string) error {
	if code >= 200 && code < 300 {
		return nil
	}
	if message == "" {
		message = fmt.Sprintf("HTTP %d", code)
	}

	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", message, ErrRateLimit)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%s: %w", message, ErrAuthFailed)
	case code == http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", message, ErrQuotaExceeded)
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", message, ErrTimeout)
	case code >= 500:
		return fmt.Errorf("%s: %w", message, ErrUnavailable)
	default:
		return fmt.Errorf("%s: %w", message, ErrBadRequest)
	}
}
