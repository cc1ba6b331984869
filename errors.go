package goRoles

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoCurrentRole is returned by operations that require a signed-in identity.
	ErrNoCurrentRole = errors.New("no current role")
	// ErrUnauthorized maps 401 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden maps 403 responses.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound maps 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest maps the remaining 4xx responses.
	ErrBadRequest = errors.New("bad request")
	// ErrServer maps 5xx responses.
	ErrServer = errors.New("server error")
	// ErrDecodeResponse is returned when a response body is not the expected JSON.
	ErrDecodeResponse = errors.New("decode response")
	// ErrClientNotReady is returned by operations on a nil or closed Client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrEmptyID is returned when an operation needs a role id and got none.
	ErrEmptyID = errors.New("role id required")
	// ErrEmptyEmail is returned by login and forgot-password without an email.
	ErrEmptyEmail = errors.New("email required")
	// ErrSessionEnded is returned when the session ended while a refresh or
	// update of the signed-in identity was in flight. The response is dropped.
	ErrSessionEnded = errors.New("session ended")
	// ErrEmptyToken is returned by token based account operations without a token.
	ErrEmptyToken = errors.New("token required")
)

// APIError describes a non-2xx response from the role API. It unwraps to
// one of the status sentinels so callers can use [errors.Is].
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrServer
	case e.StatusCode >= 400:
		return ErrBadRequest
	default:
		return nil
	}
}
