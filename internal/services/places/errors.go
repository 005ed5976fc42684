package places

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ternarybob/reperio/internal/models"
)

// classifyHTTPError converts a non-2xx provider response into a typed
// ProviderError. The body is parsed as JSON best-effort; unparsable bodies
// fall back to the HTTP status text as the message.
func classifyHTTPError(statusCode int, body []byte) *models.ProviderError {
	message := extractErrorMessage(body)
	if message == "" {
		message = http.StatusText(statusCode)
	}

	switch statusCode {
	case http.StatusForbidden:
		return &models.ProviderError{
			Kind:       models.ErrAuthRejected,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("places API rejected the credential (check that the key is valid and the API is enabled): %s", message),
		}
	case http.StatusBadRequest:
		return &models.ProviderError{
			Kind:       models.ErrBadRequest,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("places API rejected the request: %s", message),
		}
	case http.StatusTooManyRequests:
		return &models.ProviderError{
			Kind:       models.ErrRateLimited,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("places API rate limit exceeded: %s", message),
		}
	default:
		return &models.ProviderError{
			Kind:       models.ErrUpstream,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("places API returned HTTP %d: %s", statusCode, message),
		}
	}
}

// extractErrorMessage pulls a human-readable message out of an upstream error
// body. Both error body shapes are checked.
func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return parsed.ErrorMessage
}
