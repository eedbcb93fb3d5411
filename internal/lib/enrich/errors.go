package enrich

import "errors"

// Provider failure taxonomy. Clients wrap these with %w so passes can branch
// on errors.Is and degrade to an explicit default.
var (
	// ErrProviderUnavailable covers network failures and non-success statuses.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderEmpty means the call succeeded but returned nothing usable.
	ErrProviderEmpty = errors.New("provider returned no usable data")

	// ErrMalformedInput means a numeric or text field could not be parsed.
	ErrMalformedInput = errors.New("malformed input")

	// ErrEmptyRoute is returned by the pipeline for a route with no points.
	ErrEmptyRoute = errors.New("route has no points")

	errNotConfigured = errors.New("provider not configured")
)

// failureKind names the taxonomy bucket of err for logs and metrics.
func failureKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProviderEmpty):
		return "empty"
	case errors.Is(err, ErrMalformedInput):
		return "malformed"
	case errors.Is(err, errNotConfigured):
		return "not_configured"
	default:
		return "unavailable"
	}
}
