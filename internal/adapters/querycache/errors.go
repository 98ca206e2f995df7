package querycache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrInvalidRequest = errors.New("invalid query request")
	ErrClosed         = errors.New("subscription closed")
)
