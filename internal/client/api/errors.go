package api

import "fmt"

// APIError is a non-2xx response from the cloud backend, surfaced untouched
// to the caller once auth recovery (if any) has run its course.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cloud api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("cloud api: %s (status %d)", e.Message, e.StatusCode)
}
