package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// StatusError is a non-2xx response from an external provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, body)
}

// NewStatusError builds a StatusError.
func NewStatusError(provider string, statusCode int, body []byte) *StatusError {
	return &StatusError{Provider: provider, StatusCode: statusCode, Body: string(body)}
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// ProviderFault reports whether err should count against the provider's
// breaker. Caller cancellation (hang-up) and "no such record" responses
// are not the provider's fault; timeouts, network errors, auth failures,
// throttling and 5xx are.
func ProviderFault(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrCircuitOpen) {
		return false
	}

	if code := StatusCode(err); code != 0 {
		switch {
		case code == http.StatusUnauthorized, code == http.StatusForbidden:
			return true
		case IsTransientHTTPStatus(code):
			return true
		case code >= 400 && code < 500:
			return false
		}
	}
	return true
}

// IsTransient reports whether err looks like a network blip or an
// overloaded provider rather than a permanent rejection.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if code := StatusCode(err); code != 0 {
		return IsTransientHTTPStatus(code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsTransientHTTPStatus returns true for statuses that indicate a
// temporary provider-side problem.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
