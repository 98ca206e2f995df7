package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for model errors.
var (
	ErrDecode  = errors.New("malformed payload")
	ErrInvalid = errors.New("invalid input")
)

// DecodeError reports a payload from the API that does not match the
// documented entity shape.
type DecodeError struct {
	Entity string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Entity, e.Err)
}

// Unwrap exposes both ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }
