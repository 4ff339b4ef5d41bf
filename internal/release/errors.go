package release

import (
	"fmt"
)

// APIError is returned when the hosting API answers with a non-success status.
// Err holds the client library's error when there is one.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NoCommitsError is returned when the repository has no commits to tag.
type NoCommitsError struct {
	Repository string
}

func (e *NoCommitsError) Error() string {
	return fmt.Sprintf("repository %s has no commits", e.Repository)
}

// MalformedResponseError is returned when a response lacks a required field.
type MalformedResponseError struct {
	URL   string
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("response from %s is missing %s", e.URL, e.Field)
}
