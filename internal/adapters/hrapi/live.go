package hrapi

import (
	"context"

	"github.com/okian/staffboard/internal/adapters/querycache"
	"github.com/okian/staffboard/internal/domain/types"
)

// Snapshot is a decoded value and the freshness of the entry it came from.
type Snapshot[T any] struct {
	Value T
	types.Freshness
}

// Live is a typed view over a cache subscription.
type Live[T any] struct {
	sub    *querycache.Subscription
	decode func([]byte) (T, error)
}

func newLive[T any](sub *querycache.Subscription, decode func([]byte) (T, error)) *Live[T] {
	return &Live[T]{sub: sub, decode: decode}
}

// Get waits for a fresh result and decodes it. A cached transport error is
// returned as is.
func (l *Live[T]) Get(ctx context.Context) (T, error) {
	var zero T
	r, err := l.sub.Wait(ctx)
	if err != nil {
		return zero, err
	}
	return l.decode(r.Data)
}

// Latest decodes the current snapshot without waiting. stale reports that an
// invalidation is pending. ErrNotReady is returned before the first result.
func (l *Live[T]) Latest() (value T, stale bool, err error) {
	r, ok := l.sub.Current()
	if !ok {
		return value, false, ErrNotReady
	}
	if r.Err != nil {
		return value, r.Stale, r.Err
	}
	value, err = l.decode(r.Data)
	return value, r.Stale, err
}

// Snapshot returns the current value without waiting, stale or not. Before
// the first result it waits like Get.
func (l *Live[T]) Snapshot(ctx context.Context) (Snapshot[T], error) {
	r, ok := l.sub.Current()
	if !ok {
		var err error
		if r, err = l.sub.Wait(ctx); err != nil {
			return Snapshot[T]{}, err
		}
	}
	snap := Snapshot[T]{Freshness: types.Freshness{Stale: r.Stale, FetchedAt: r.FetchedAt}}
	if r.Err != nil {
		return snap, r.Err
	}
	v, err := l.decode(r.Data)
	if err != nil {
		return snap, err
	}
	snap.Value = v
	return snap, nil
}

// Refetch forces a new fetch and waits for it.
func (l *Live[T]) Refetch(ctx context.Context) error { return l.sub.Refetch(ctx) }

// Key returns the cache key.
func (l *Live[T]) Key() string { return l.sub.Key() }

// Close releases the subscription.
func (l *Live[T]) Close() { l.sub.Close() }
