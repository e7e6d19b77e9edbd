package httpclient

import (
	"errors"
	"fmt"
)

// StatusError reports a non-2xx HTTP response from an upstream service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a StatusError for HTTP 404, the shape
// Nominatim and OSRM both use for "no result".
func IsNotFound(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == 404
	}
	return false
}
