package graphql

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated indicates the API rejected the session token. The
	// session has already been invalidated when this is returned.
	ErrUnauthenticated = errors.New("session expired or not authenticated")

	// ErrTransport indicates the request never produced a usable GraphQL
	// response: connection failure, timeout, non-200 status or a body that
	// could not be decoded.
	ErrTransport = errors.New("graphql transport failure")

	// ErrUnexpectedResult indicates a union payload with an unknown __typename.
	ErrUnexpectedResult = errors.New("unexpected graphql result type")
)

// ApplicationError is a domain rejection returned by the API inside a
// success-shaped envelope. Error returns the server message verbatim.
type ApplicationError struct {
	Operation string
	Message   string
}

func (e *ApplicationError) Error() string { return e.Message }

// IsApplicationError reports whether err wraps an *ApplicationError.
func IsApplicationError(err error) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr)
}

// ResponseError is one entry of the top-level "errors" array.
type ResponseError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Code returns extensions.code, or "".
func (e ResponseError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// ResponseErrors is the decoded top-level "errors" array.
type ResponseErrors []ResponseError

func (es ResponseErrors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (es ResponseErrors) unauthenticated() bool {
	for _, e := range es {
		if e.Code() == "UNAUTHENTICATED" {
			return true
		}
	}
	return false
}
