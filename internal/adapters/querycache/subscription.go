package querycache

import (
	"context"
	"sync"

	"github.com/okian/staffboard/pkg/metrics"
)

// Subscription is one consumer's interest in a cache entry. Close releases it.
type Subscription struct {
	cache   *Cache
	e       *entry
	updates chan Result

	closeOnce sync.Once
	closed    bool // guarded by cache.mu
}

func newSubscription(c *Cache, e *entry) *Subscription {
	return &Subscription{cache: c, e: e, updates: make(chan Result, 1)}
}

// Key returns the cache key of the subscribed entry.
func (s *Subscription) Key() string { return s.e.key }

// Current returns the latest result and whether the entry has settled at least once.
func (s *Subscription) Current() (Result, bool) {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	return s.e.result, s.e.hasValue
}

// Updates delivers results as they are applied. Only the latest undelivered
// result is kept. The channel is closed by Close.
func (s *Subscription) Updates() <-chan Result { return s.updates }

// Wait blocks until the entry holds a result that is not stale and returns
// it. When that result is an error, the error is returned as well.
func (s *Subscription) Wait(ctx context.Context) (Result, error) {
	for {
		s.cache.mu.Lock()
		if s.closed {
			s.cache.mu.Unlock()
			return Result{}, ErrClosed
		}
		r, ok := s.e.result, s.e.hasValue
		changed := s.e.changed
		s.cache.mu.Unlock()

		if ok && !r.Stale {
			return r, r.Err
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-changed:
		}
	}
}

// Refetch fetches the entry again and waits for the result, or for ctx.
// A successful refetch replaces a cached error.
func (s *Subscription) Refetch(ctx context.Context) error {
	c := s.cache
	c.mu.Lock()
	if s.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	run := c.issueLocked(ctx, s.e)
	c.mu.Unlock()

	metrics.RecordRefetch(ReasonManual)
	done := make(chan error, 1)
	go func() { done <- run() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() { s.cache.release(s) })
}

// push replaces any undelivered result with r. Callers hold cache.mu.
func (s *Subscription) push(r Result) {
	select {
	case s.updates <- r:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- r:
	default:
	}
}
