package client

import (
	"fmt"
	"net/http"
)

// RequestError describes a failed backend request: either the transport
// failed (Err set) or the backend answered with a non-2xx status.
type RequestError struct {
	Method  string
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("client: %s %s: %v", e.Method, e.URL, e.Err)
	case e.Message != "":
		return fmt.Sprintf("client: %s %s: %d %s: %s", e.Method, e.URL, e.Status, http.StatusText(e.Status), e.Message)
	default:
		return fmt.Sprintf("client: %s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the backend answered 404.
func (e *RequestError) NotFound() bool {
	return e.Status == http.StatusNotFound
}
