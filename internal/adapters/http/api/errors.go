package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/staffboard/internal/adapters/querycache"
	"github.com/okian/staffboard/internal/adapters/transport"
	"github.com/okian/staffboard/internal/domain/model"
	"github.com/okian/staffboard/internal/domain/types"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeds maximum")
)

// writeServiceError maps an error returned by a dependency to a status and
// error code.
func writeServiceError(w http.ResponseWriter, err error) {
	status, body := describe(err)
	writeJSON(w, status, body)
}

func describe(err error) (int, types.ErrorResponse) {
	body := types.ErrorResponse{Message: err.Error()}

	var te *transport.Error
	switch {
	case errors.Is(err, model.ErrDecode):
		body.Error = "bad_upstream_payload"
		return http.StatusBadGateway, body
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, querycache.ErrInvalidRequest),
		errors.Is(err, transport.ErrInvalidRequest),
		errors.Is(err, model.ErrInvalid):
		body.Error = "bad_request"
		return http.StatusBadRequest, body
	case errors.Is(err, types.ErrUnavailable):
		body.Error = "unavailable"
		return http.StatusServiceUnavailable, body
	case errors.As(err, &te):
		return describeTransport(te, body)
	case errors.Is(err, context.DeadlineExceeded):
		body.Error = "timeout"
		return http.StatusGatewayTimeout, body
	default:
		body.Error = "internal_error"
		return http.StatusInternalServerError, body
	}
}

func describeTransport(te *transport.Error, body types.ErrorResponse) (int, types.ErrorResponse) {
	if te.Kind == transport.KindStatus {
		switch te.Status {
		case http.StatusNotFound:
			body.Error = "not_found"
			return http.StatusNotFound, body
		case http.StatusUnauthorized:
			body.Error = "unauthorized"
			return http.StatusUnauthorized, body
		case http.StatusForbidden:
			body.Error = "forbidden"
			return http.StatusForbidden, body
		}
	}
	body.Error = "upstream_error"
	body.Kind = string(te.Kind)
	return http.StatusBadGateway, body
}
