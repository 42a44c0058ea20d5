package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors that can be checked with errors.Is.
var (
	// ErrUnauthorized indicates a missing, invalid or expired token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates the account or message does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnprocessable indicates the provider rejected the request body,
	// e.g. an address on an unknown domain or one already taken.
	ErrUnprocessable = errors.New("unprocessable request")
	// ErrRateLimited indicates the provider's rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrNoDomains indicates the provider returned an empty domain list.
	ErrNoDomains = errors.New("no domains available")
)

// APIError represents a non-success HTTP response from the provider.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf(
			"provider error %d on %s %s: %s",
			e.StatusCode, e.Method, e.Path, e.Message,
		)
	}
	return fmt.Sprintf(
		"provider error %d on %s %s", e.StatusCode, e.Method, e.Path,
	)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == ErrUnauthorized
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return target == ErrUnprocessable
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a transport-level failure: the request never
// produced an HTTP response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err (or any error in its chain) is a
// NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
