package querycache

import (
	"context"

	"github.com/okian/staffboard/pkg/logger"
)

// Refetch reasons reported to dispatchers and metrics.
const (
	ReasonInvalidated = "invalidated"
	ReasonRevalidate  = "revalidate"
	ReasonManual      = "manual"
)

// Dispatcher schedules a background refetch of a cache key. It returns false
// when the refetch could not be scheduled.
type Dispatcher interface {
	Dispatch(ctx context.Context, key, reason string) bool
}

// Refresher refetches a cache key. *Cache implements it.
type Refresher interface {
	Refetch(ctx context.Context, key string) error
}

// goDispatcher runs every refetch on its own goroutine.
type goDispatcher struct {
	r      Refresher
	logger logger.Logger
}

func (d goDispatcher) Dispatch(ctx context.Context, key, reason string) bool {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := d.r.Refetch(ctx, key); err != nil {
			d.logger.Debug(ctx, "background refetch failed",
				logger.String("key", key),
				logger.String("reason", reason),
				logger.Error(err))
		}
	}()
	return true
}
