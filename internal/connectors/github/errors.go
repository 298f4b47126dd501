package github

import (
	"errors"
	"net/http"

	gh "github.com/google/go-github/v80/github"
)

// Common GitHub API errors.
var (
	// ErrUnauthorized indicates an invalid or expired token.
	ErrUnauthorized = errors.New("github: unauthorised (invalid token)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("github: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("github: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("github: rate limit exceeded")
)

// WrapError converts a go-github error to a more specific error type.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return ErrRateLimited
	}

	var ghErr *gh.ErrorResponse
	if !errors.As(err, &ghErr) {
		return err
	}

	switch ghErr.Response.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return err
	}
}
