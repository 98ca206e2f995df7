package transport

import (
	"fmt"
	"net/http"
	"strings"
)

// Request describes one call to the remote API. Path is relative to the
// client's base URL.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

var allowedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// Validate rejects requests that could never be sent.
func (r Request) Validate() error {
	if _, ok := allowedMethods[r.Method]; !ok {
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, r.Method)
	}
	if r.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidRequest)
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidRequest, r.Path)
	}
	return nil
}

// String renders "METHOD path" for logs.
func (r Request) String() string { return r.Method + " " + r.Path }
