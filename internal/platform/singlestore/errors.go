package singlestore

import (
	"errors"
	"fmt"
)

// APIError is returned when the API answers with a non-2xx status or cannot be reached.
// StatusCode is zero for transport failures, in which case Err holds the cause.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: API error (status %d): %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when a named lookup that requires a match finds nothing.
type NotFoundError struct {
	Kind string // "region", "workspace group", "workspace"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// IsNotFound reports whether err is a *NotFoundError or an API 404.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return IsStatus(err, 404)
}

// IsStatus reports whether err is an *APIError with one of the given status codes.
func IsStatus(err error, codes ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}
