// Package transport sends authenticated JSON requests to the remote HR API.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/okian/staffboard/internal/adapters/credentials"
	"github.com/okian/staffboard/pkg/logger"
	"github.com/okian/staffboard/pkg/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "staffboard"
	requestIDHeader  = "X-Request-ID"
)

// Client is a thin resty wrapper that attaches the current bearer token to
// every request and maps failures to *Error. It never retries.
type Client struct {
	http       *resty.Client
	httpClient *http.Client
	creds      credentials.Provider
	logger     logger.Logger
	timeout    time.Duration
	userAgent  string
}

// New builds a client for baseURL. creds may be nil, in which case no
// Authorization header is sent.
func New(baseURL string, creds credentials.Provider, opts ...Option) *Client {
	c := &Client{
		creds:     creds,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("transport")
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}

	r := resty.NewWithClient(c.httpClient)
	r.SetBaseURL(strings.TrimRight(baseURL, "/"))
	r.SetTimeout(c.timeout)
	r.SetHeader("User-Agent", c.userAgent)
	r.SetHeader("Accept", "application/json, */*")
	r.OnBeforeRequest(c.authorize)
	c.http = r
	return c
}

// authorize reads the token at send time so credential changes take effect
// on the next request.
func (c *Client) authorize(_ *resty.Client, r *resty.Request) error {
	if c.creds == nil {
		return nil
	}
	if token := c.creds.Token(r.Context()); token != "" {
		r.SetHeader("Authorization", "Bearer "+token)
	}
	return nil
}

// Timeout returns the per-request bound.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Do sends req and returns the raw response body of a 2xx response.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r := c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	metrics.RecordTransportLatency(req.Method, metrics.SinceMs(start))

	if err != nil {
		terr := classify(ctx, req, err)
		metrics.RecordTransportError(string(terr.Kind))
		c.logger.Debug(ctx, "request failed",
			logger.String("request", req.String()),
			logger.String("kind", string(terr.Kind)),
			logger.Error(err))
		return nil, terr
	}

	status := resp.StatusCode()
	metrics.RecordTransportRequest(req.Method, strconv.Itoa(status))
	c.logger.Debug(ctx, "request done",
		logger.String("request", req.String()),
		logger.Int("status", status),
		logger.Duration("took", time.Since(start)))

	if !resp.IsSuccess() {
		metrics.RecordTransportError(string(KindStatus))
		return nil, &Error{
			Kind:    KindStatus,
			Method:  req.Method,
			Path:    req.Path,
			Status:  status,
			Message: errorMessage(resp.Body(), status),
		}
	}
	return resp.Body(), nil
}

func classify(ctx context.Context, req Request, err error) *Error {
	kind := KindNetwork
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		kind = KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}
	return &Error{Kind: kind, Method: req.Method, Path: req.Path, Err: err}
}

// errorMessage prefers the API's JSON message or error field over the status text.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}
