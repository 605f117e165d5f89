package github

import (
	"errors"
	"fmt"

	gh "github.com/google/go-github/v68/github"
)

// APIError is the terminal failure for a single API call: every retry
// attempt was spent without a successful response.
type APIError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: request to %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error ultimately came from a 404 response.
func IsNotFound(err error) bool {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == 404
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == 401
	}
	return false
}
