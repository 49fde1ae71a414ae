package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tidwall/gjson"
)

// Sentinel errors for the API client
var (
	ErrInvalidBaseURL = goerr.New("invalid API base URL")
	ErrRequestFailed  = goerr.New("API request failed")
)

// Context keys for error values
const (
	MethodKey    = "method"
	PathKey      = "path"
	StatusKey    = "status"
	RequestIDKey = "request_id"
)

// serverMessagePaths are tried in order to find a human readable message in
// an error response payload.
var serverMessagePaths = []string{"error.message", "error", "message", "data.message"}

// Error is returned when the API answers with a non-2xx status.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	RequestID  string
	Body       []byte
}

func (e *Error) Error() string {
	if msg := e.ServerMessage(); msg != "" {
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.TransportMessage())
}

// Is makes every *Error match ErrRequestFailed.
func (e *Error) Is(target error) bool {
	return target == ErrRequestFailed
}

// ServerMessage returns the message supplied by the server in the error
// payload, or an empty string.
func (e *Error) ServerMessage() string {
	if !gjson.ValidBytes(e.Body) {
		return ""
	}
	for _, path := range serverMessagePaths {
		if res := gjson.GetBytes(e.Body, path); res.Type == gjson.String && res.String() != "" {
			return res.String()
		}
	}
	return ""
}

// TransportMessage is the generic message for the failure.
func (e *Error) TransportMessage() string {
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

// ErrorMessage converts err to the message shown to users: the server
// supplied message, else the transport failure message, else fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.ServerMessage(); msg != "" {
			return msg
		}
		return apiErr.TransportMessage()
	}

	if errors.Is(err, context.Canceled) {
		return "Request canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out"
	}

	// goerr layers carry our own context; the first foreign error in the
	// chain is the transport failure itself.
	for cause := err; cause != nil; cause = errors.Unwrap(cause) {
		if _, ok := cause.(*goerr.Error); ok {
			continue
		}
		if msg := cause.Error(); msg != "" {
			return msg
		}
		break
	}
	return fallback
}
