package models

import "fmt"

// ErrorKind identifies one failure class in the search path. Classification
// happens once at the provider boundary; downstream code switches on Kind and
// never re-derives it from message text.
type ErrorKind string

const (
	// ErrUnconfigured means the provider credential is missing or empty.
	// Raised before any network call is attempted.
	ErrUnconfigured ErrorKind = "unconfigured"

	// ErrMissingQuery means the search had neither query text nor a category.
	ErrMissingQuery ErrorKind = "missing_query"

	// ErrMissingCoordinates means the search center was not supplied.
	ErrMissingCoordinates ErrorKind = "missing_coordinates"

	// ErrAuthRejected means the upstream returned 403: the credential is
	// invalid or the API is not enabled for it.
	ErrAuthRejected ErrorKind = "auth_rejected"

	// ErrBadRequest means the upstream returned 400; the upstream message is
	// echoed to the caller.
	ErrBadRequest ErrorKind = "bad_request"

	// ErrRateLimited means the upstream returned 429.
	ErrRateLimited ErrorKind = "rate_limited"

	// ErrUnreachable means the transport failed before an HTTP status was
	// received (network error, timeout).
	ErrUnreachable ErrorKind = "unreachable"

	// ErrUpstream covers any other non-2xx upstream status.
	ErrUpstream ErrorKind = "upstream"

	// ErrParseFailure means AI output could not be parsed. Per-place only;
	// never surfaced past the enrichment pipeline boundary.
	ErrParseFailure ErrorKind = "parse_failure"
)

// ProviderError is the typed failure surfaced by the search path.
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("places provider: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("places provider: %s: %s", e.Kind, e.Message)
}

// NewProviderError creates a ProviderError with the given kind and message.
func NewProviderError(kind ErrorKind, message string) *ProviderError {
	return &ProviderError{Kind: kind, Message: message}
}

// ErrorKindOf extracts the ErrorKind from err, or empty string when err is not
// a ProviderError.
func ErrorKindOf(err error) ErrorKind {
	if pe, ok := err.(*ProviderError); ok {
		return pe.Kind
	}
	return ""
}
