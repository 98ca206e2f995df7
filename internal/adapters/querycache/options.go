package querycache

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/staffboard/pkg/logger"
)

// Option configures a Cache.
type Option func(*Cache)

// WithKeepUnusedDataFor sets how long an entry without subscribers is kept
// before eviction. Zero evicts as soon as the last subscriber leaves.
func WithKeepUnusedDataFor(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.keepUnused = d
		}
	}
}

// WithClock sets the clock used for eviction timers and fetch timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithDispatcher routes invalidation refetches through d.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Cache) {
		if d != nil {
			c.dispatcher = d
		}
	}
}

// WithLogger sets the cache logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
