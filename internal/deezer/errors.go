package deezer

import (
	"errors"
	"fmt"
)

// ErrLoginFailed is returned when the gateway reports the anonymous
// user for the supplied arl cookie.
//
// This typically occurs when:
//   - The arl cookie has expired (Deezer rotates them periodically)
//   - The cookie was copied incompletely
//   - The account was logged out everywhere
var ErrLoginFailed = errors.New("deezer: login failed, check the arl cookie")

// RequestError is returned when an API endpoint answers with a
// non-success HTTP status. It covers transport-level rejection, not
// error payloads embedded in a successful response (see APIError).
type RequestError struct {
	// URL is the request URL that failed.
	URL string

	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Status is the full status line.
	Status string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("deezer: request %s failed: %s", e.URL, e.Status)
}

// APIError is an error envelope delivered inside an otherwise
// successful API response, from either the public or the gateway API.
type APIError struct {
	// Type is the provider's error class, e.g. "DataException".
	Type string

	// Message is the human readable description.
	Message string

	// Code is the provider's numeric error code. Gateway errors carry
	// no code and leave it zero.
	Code int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deezer: error %d: %s - %s", e.Code, e.Type, e.Message)
}

// NotFoundError is returned when an entity ID does not resolve. The
// provider signals this with a DataException envelope; other envelope
// types surface as APIError.
type NotFoundError struct {
	// Kind is the entity kind, "track" or "album".
	Kind string

	// ID is the entity ID that did not resolve.
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("deezer: %s %d not found", e.Kind, e.ID)
}

// InvalidURLError is returned when a string does not match the
// provider's link shape at all.
type InvalidURLError struct {
	// URL is the rejected input.
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("deezer: %q is not a valid deezer url", e.URL)
}
