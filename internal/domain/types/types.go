// Package types contains the response shapes shared by the service and the HTTP API.
package types

import (
	"errors"
	"time"
)

// ErrUnavailable marks a dependency that cannot serve yet.
var ErrUnavailable = errors.New("service unavailable")

// Freshness describes the cached data a view was computed from.
type Freshness struct {
	// Stale is set while an invalidation is waiting for its refetch.
	Stale bool `json:"stale"`
	// FetchedAt is when the oldest source was fetched.
	FetchedAt time.Time `json:"fetched_at"`
}

// Merge combines the freshness of two sources: stale if either is, fetched
// at the older of the two times.
func (f Freshness) Merge(o Freshness) Freshness {
	out := Freshness{Stale: f.Stale || o.Stale, FetchedAt: f.FetchedAt}
	if out.FetchedAt.IsZero() || (!o.FetchedAt.IsZero() && o.FetchedAt.Before(out.FetchedAt)) {
		out.FetchedAt = o.FetchedAt
	}
	return out
}

// View is a computed view together with the freshness of its inputs.
type View[T any] struct {
	Data T `json:"data"`
	Freshness
}

// NewView wraps data with the merged freshness of every source.
func NewView[T any](data T, sources ...Freshness) View[T] {
	var f Freshness
	for i, s := range sources {
		if i == 0 {
			f = s
			continue
		}
		f = f.Merge(s)
	}
	return View[T]{Data: data, Freshness: f}
}

// CacheStats mirrors the query cache counters.
type CacheStats struct {
	Entries     int `json:"entries"`
	Subscribers int `json:"subscribers"`
	InFlight    int `json:"in_flight"`
}

// QueueStats describes the background refetch queue.
type QueueStats struct {
	Length   int   `json:"length"`
	Capacity int   `json:"capacity"`
	Pending  int64 `json:"pending"`
}

// WorkerStats describes the refetch worker pool.
type WorkerStats struct {
	Workers   int   `json:"workers"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Stats is the service status served on /stats.
type Stats struct {
	Started bool        `json:"started"`
	Cache   CacheStats  `json:"cache"`
	Queue   QueueStats  `json:"queue"`
	Workers WorkerStats `json:"workers"`
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Kind is the transport failure class for upstream errors.
	Kind string `json:"kind,omitempty"`
}
