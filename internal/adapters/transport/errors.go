package transport

import (
	"errors"
	"fmt"
)

// Sentinel kinds for transport errors.
var (
	ErrTransport      = errors.New("transport failure")
	ErrInvalidRequest = errors.New("invalid request")
)

// Kind classifies a transport failure.
type Kind string

const (
	KindNetwork  Kind = "network"
	KindTimeout  Kind = "timeout"
	KindStatus   Kind = "status"
	KindCanceled Kind = "canceled"
)

// Error describes a failed call to the remote API.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Kind)
}

// Unwrap exposes ErrTransport and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// status failure.
func StatusCode(err error) int {
	var te *Error
	if errors.As(err, &te) && te.Kind == KindStatus {
		return te.Status
	}
	return 0
}
