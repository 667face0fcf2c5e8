package api

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError is a 401 from the backend.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Message
}

// ServerError is any other non-2xx response. Message is the backend's error text.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// TransportError wraps failures below HTTP: dial, DNS, timeouts, truncated bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ServerMessage returns the backend's error text when err is a ServerError.
func ServerMessage(err error) (string, bool) {
	var se *ServerError
	if !errors.As(err, &se) {
		return "", false
	}
	if se.Message != "" {
		return se.Message, true
	}
	return fmt.Sprintf("%d %s", se.StatusCode, http.StatusText(se.StatusCode)), true
}
