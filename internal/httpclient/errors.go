// SPDX-License-Identifier: MPL-2.0

package httpclient

import (
	"errors"
	"fmt"
)

var (
	// ErrClientNotConfigured is returned when a session has no shared client.
	// It is a setup problem, not a request problem.
	ErrClientNotConfigured = errors.New("http client not configured for this session")
	// ErrClientUnavailable is returned once a previous holder of the client
	// panicked and left the cell poisoned.
	ErrClientUnavailable = errors.New("http client unavailable")
	// ErrRequest is the sentinel wrapped by RequestError.
	ErrRequest = errors.New("http request failed")
	// ErrDecode is the sentinel wrapped by DecodeError.
	ErrDecode = errors.New("http response is not valid text")
)

type (
	// RequestError reports a transport-level failure. Err carries the
	// transport's message.
	RequestError struct {
		Method string
		URL    string
		Err    error
	}

	// DecodeError reports a body that cannot be decoded under its declared charset.
	DecodeError struct {
		URL     string
		Charset string
		Err     error
	}
)

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns ErrRequest and the transport error so both errors.Is(err,
// ErrRequest) and errors.Is(err, context.Canceled) work.
func (e *RequestError) Unwrap() []error { return []error{ErrRequest, e.Err} }

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: body is not valid %s text", e.URL, e.Charset)
	}
	return fmt.Sprintf("%s: cannot decode body as %s: %v", e.URL, e.Charset, e.Err)
}

// Unwrap returns ErrDecode for errors.Is() compatibility.
func (e *DecodeError) Unwrap() error { return ErrDecode }
