package model

import (
	"fmt"
)

// HTTPError wraps a non-success HTTP status whose body was not a well-formed
// analysis result, so callers can tell transport failures apart from
// server-reported ones.
type HTTPError struct {
	StatusCode int
	Body       string // truncated response body, for logging
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
