package kayako

import (
	"errors"
	"fmt"
)

// Transport and normalization error taxonomy. Every failure of the client
// wraps exactly one of these sentinels so callers can branch with
// errors.Is without parsing messages.
var (
	// ErrUnconfigured is returned before any network I/O when the
	// credential triple is incomplete.
	ErrUnconfigured = errors.New("kayako api not configured")

	// ErrAuthFailed maps HTTP 401: the upstream rejected the credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrPermissionDenied maps HTTP 403.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound maps HTTP 404: the entity or endpoint does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited maps HTTP 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServerError maps HTTP 5xx.
	ErrServerError = errors.New("kayako server error")

	// ErrBadRequest maps the remaining 4xx range.
	ErrBadRequest = errors.New("request rejected")

	// ErrTimeout is returned when the single bounded call timeout fires.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork covers transport failures below the HTTP layer.
	ErrNetwork = errors.New("network error")

	// ErrMalformedInput is returned when the upstream was reachable but
	// its response is not well-formed XML. Kept distinct from transport
	// failures so callers can tell "returned garbage" from "unreachable".
	ErrMalformedInput = errors.New("malformed xml response")

	// ErrReservedParam is returned when a caller supplies one of the
	// authentication parameters itself.
	ErrReservedParam = errors.New("reserved authentication parameter")
)

// StatusError carries the HTTP status and a truncated body snippet for
// diagnostics. It wraps the taxonomy sentinel matching its status range.
type StatusError struct {
	StatusCode int
	Snippet    string // first 200 characters of the response body
	kind       error
}

// NewStatusError builds a StatusError wrapping the given sentinel.
func NewStatusError(status int, snippet string, kind error) *StatusError {
	return &StatusError{StatusCode: status, Snippet: snippet, kind: kind}
}

func (e *StatusError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%v (status %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%v (status %d): %s", e.kind, e.StatusCode, e.Snippet)
}

// Unwrap ties StatusError into the taxonomy.
func (e *StatusError) Unwrap() error { return e.kind }

// Describe converts any core error into the short, actionable message
// shown to the tool caller. Raw faults, stack traces, and internal
// identifiers never cross the tool boundary.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnconfigured):
		return "Kayako API not configured. Set KAYAKO_API_URL, KAYAKO_API_KEY, and KAYAKO_SECRET_KEY."
	case errors.Is(err, ErrAuthFailed):
		return "Authentication failed. Check KAYAKO_API_KEY and KAYAKO_SECRET_KEY, and ensure API access is enabled in the Kayako admin panel."
	case errors.Is(err, ErrPermissionDenied):
		return "Permission denied. The API identity does not have access to this resource."
	case errors.Is(err, ErrNotFound):
		return "Resource not found. The ticket ID or endpoint may not exist."
	case errors.Is(err, ErrRateLimited):
		return "Rate limit exceeded. Wait a few minutes before making more requests."
	case errors.Is(err, ErrServerError):
		return fmt.Sprintf("Kayako server error (%s). Try again later or contact Kayako support.", statusOf(err))
	case errors.Is(err, ErrTimeout):
		return "Request timed out. The Kayako server may be slow; try again."
	case errors.Is(err, ErrNetwork):
		return "Network error reaching the Kayako server. Check the API URL and connectivity."
	case errors.Is(err, ErrMalformedInput):
		return "Kayako returned a response that could not be parsed as XML."
	case errors.Is(err, ErrBadRequest):
		return err.Error()
	default:
		return err.Error()
	}
}

// statusOf extracts the status code text from a wrapped StatusError.
func statusOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%d", se.StatusCode)
	}
	return "5xx"
}
