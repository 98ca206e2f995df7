// Package querycache is a tagged request cache in front of the remote API.
//
// Reads are keyed by method, path and arguments and shared between all
// subscribers of the same key. Writes go through Mutate, which marks entries
// carrying an invalidated tag as stale and refetches the ones still in use.
// Entries without subscribers are evicted after a grace period.
package querycache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/okian/staffboard/internal/adapters/transport"
	"github.com/okian/staffboard/pkg/logger"
	"github.com/okian/staffboard/pkg/metrics"
)

const defaultKeepUnusedDataFor = 300 * time.Second

// Request is a remote API call.
type Request = transport.Request

// Fetcher performs remote calls. *transport.Client implements it.
type Fetcher interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// Result is a snapshot of an entry. Data and Err are never both set.
type Result struct {
	Data      []byte
	Err       error
	Stale     bool
	FetchedAt time.Time
}

// Stats describes the cache at a point in time.
type Stats struct {
	Entries     int `json:"entries"`
	Subscribers int `json:"subscribers"`
	InFlight    int `json:"in_flight"`
}

type entry struct {
	key  string
	req  Request
	tags []Tag

	subs     int
	watchers map[*Subscription]struct{}

	result   Result
	hasValue bool
	changed  chan struct{}

	// epoch advances on every invalidation. issuedEpoch is the epoch of the
	// most recently issued fetch.
	epoch       uint64
	issuedEpoch uint64
	// issued and applied are fetch sequence numbers. A completion is applied
	// only when it is newer than the last applied one.
	issued   uint64
	applied  uint64
	inflight int

	evictTimer clockwork.Timer
	evictGen   uint64
}

// Cache is safe for concurrent use.
type Cache struct {
	fetcher    Fetcher
	dispatcher Dispatcher
	fallback   goDispatcher
	clock      clockwork.Clock
	logger     logger.Logger
	keepUnused time.Duration

	group singleflight.Group

	mu        sync.Mutex
	entries   map[string]*entry
	totalSubs int
	inflight  int
}

// New builds a cache over fetcher.
func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher:    fetcher,
		clock:      clockwork.NewRealClock(),
		keepUnused: defaultKeepUnusedDataFor,
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("querycache")
	}
	c.fallback = goDispatcher{r: c, logger: c.logger}
	if c.dispatcher == nil {
		c.dispatcher = c.fallback
	}
	return c
}

// Query subscribes to the result of req. The first query for a key creates
// the entry with tags and starts the fetch. Later queries share the entry,
// see its current value at once and trigger a background refetch when that
// value is stale or an error. Validation failures are returned directly and
// never touch the cache.
func (c *Cache) Query(ctx context.Context, req Request, tags ...Tag) (*Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	key, err := Key(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var run func() error
	c.mu.Lock()
	e, ok := c.entries[key]
	switch {
	case !ok:
		metrics.RecordCacheMiss()
		e = &entry{
			key:      key,
			req:      req,
			tags:     append([]Tag(nil), tags...),
			watchers: make(map[*Subscription]struct{}),
			changed:  make(chan struct{}),
		}
		c.entries[key] = e
		run = c.issueLocked(ctx, e)
	default:
		metrics.RecordCacheHit()
		c.cancelEvictionLocked(e)
		if c.needsRevalidationLocked(e) {
			metrics.RecordRefetch(ReasonRevalidate)
			run = c.issueLocked(ctx, e)
		}
	}
	sub := newSubscription(c, e)
	e.subs++
	c.totalSubs++
	e.watchers[sub] = struct{}{}
	if e.hasValue {
		sub.push(e.result)
	}
	c.updateGaugesLocked()
	c.mu.Unlock()

	if run != nil {
		go func() { _ = run() }()
	}
	return sub, nil
}

// Mutate performs a write. On success every entry with a tag matching one of
// invalidates becomes stale, and those with subscribers are refetched through
// the dispatcher. A failed write invalidates nothing. Writes are never
// de-duplicated.
func (c *Cache) Mutate(ctx context.Context, req Request, invalidates ...Tag) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	data, err := c.fetcher.Do(ctx, req)
	if err != nil {
		metrics.RecordMutation(req.Method, "error")
		return nil, err
	}
	metrics.RecordMutation(req.Method, "ok")
	c.Invalidate(ctx, invalidates...)
	return data, nil
}

// Invalidate marks entries matching any of tags as stale and dispatches a
// refetch for each of them that has subscribers. It returns the number of
// entries marked.
func (c *Cache) Invalidate(ctx context.Context, tags ...Tag) int {
	if len(tags) == 0 {
		return 0
	}
	c.mu.Lock()
	marked := 0
	var refetch []string
	for key, e := range c.entries {
		if !matchesAny(e.tags, tags) {
			continue
		}
		marked++
		e.epoch++
		if e.hasValue && !e.result.Stale {
			e.result.Stale = true
			c.publishLocked(e)
		}
		if e.subs > 0 {
			refetch = append(refetch, key)
		}
	}
	c.mu.Unlock()

	for _, t := range tags {
		metrics.RecordInvalidation(t.Type)
	}
	sort.Strings(refetch)
	for _, key := range refetch {
		metrics.RecordRefetch(ReasonInvalidated)
		if !c.dispatcher.Dispatch(ctx, key, ReasonInvalidated) {
			c.logger.Warn(ctx, "refetch not scheduled, running inline", logger.String("key", key))
			c.fallback.Dispatch(ctx, key, ReasonInvalidated)
		}
	}
	c.logger.Debug(ctx, "invalidated",
		logger.Any("tags", tags),
		logger.Int("marked", marked),
		logger.Int("refetching", len(refetch)))
	return marked
}

// Refetch fetches key again and waits for the result. Entries that are gone
// or have no subscribers are skipped.
func (c *Cache) Refetch(ctx context.Context, key string) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.subs == 0 {
		c.mu.Unlock()
		return nil
	}
	run := c.issueLocked(ctx, e)
	c.mu.Unlock()
	return run()
}

// Stats reports the current entry, subscriber and in-flight counts.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.entries), Subscribers: c.totalSubs, InFlight: c.inflight}
}

// needsRevalidationLocked reports whether a new subscriber must start a fetch.
// A fetch issued before the latest invalidation never counts, even when it
// has not landed yet.
func (c *Cache) needsRevalidationLocked(e *entry) bool {
	if e.issuedEpoch < e.epoch {
		return true
	}
	return e.hasValue && e.result.Err != nil && e.inflight == 0
}

// issueLocked reserves a sequence number for a new fetch of e and returns the
// function that performs it. The fetch runs detached from ctx cancellation so
// a departing subscriber never aborts a shared call.
func (c *Cache) issueLocked(ctx context.Context, e *entry) func() error {
	e.issued++
	seq := e.issued
	epoch := e.epoch
	e.issuedEpoch = epoch
	e.inflight++
	c.inflight++
	req := e.req
	flight := fmt.Sprintf("%s@%d", e.key, epoch)
	fetchCtx := context.WithoutCancel(ctx)

	return func() error {
		v, err, shared := c.group.Do(flight, func() (any, error) {
			return c.fetcher.Do(fetchCtx, req)
		})
		if shared {
			metrics.RecordSharedFlight()
		}
		data, _ := v.([]byte)
		c.complete(fetchCtx, e, seq, epoch, data, err)
		return err
	}
}

func (c *Cache) complete(ctx context.Context, e *entry, seq, epoch uint64, data []byte, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.inflight--
	c.inflight--

	if c.entries[e.key] != e {
		metrics.RecordDiscardedResult()
		return
	}
	if seq <= e.applied {
		metrics.RecordDiscardedResult()
		c.logger.Debug(ctx, "discarded superseded result",
			logger.String("key", e.key),
			logger.Int("seq", int(seq)),
			logger.Int("applied", int(e.applied)))
		return
	}
	e.applied = seq

	r := Result{FetchedAt: c.clock.Now(), Stale: epoch < e.epoch}
	if err != nil {
		r.Err = err
		c.logger.Debug(ctx, "fetch failed", logger.String("key", e.key), logger.Error(err))
	} else {
		r.Data = data
	}
	e.result = r
	e.hasValue = true
	c.publishLocked(e)
}

// publishLocked pushes the entry's result to every subscriber and wakes waiters.
func (c *Cache) publishLocked(e *entry) {
	for sub := range e.watchers {
		sub.push(e.result)
	}
	wakeLocked(e)
}

func wakeLocked(e *entry) {
	close(e.changed)
	e.changed = make(chan struct{})
}

func (c *Cache) cancelEvictionLocked(e *entry) {
	if e.evictTimer != nil {
		e.evictTimer.Stop()
		e.evictTimer = nil
	}
	e.evictGen++
}

// release drops one subscriber and schedules eviction when none remain.
func (c *Cache) release(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := sub.e
	sub.closed = true
	delete(e.watchers, sub)
	close(sub.updates)
	wakeLocked(e)
	e.subs--
	c.totalSubs--
	c.updateGaugesLocked()
	if e.subs > 0 || c.entries[e.key] != e {
		return
	}

	if c.keepUnused == 0 {
		c.evictLocked(e)
		return
	}
	e.evictGen++
	gen := e.evictGen
	e.evictTimer = c.clock.AfterFunc(c.keepUnused, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e.evictGen != gen || e.subs > 0 || c.entries[e.key] != e {
			return
		}
		c.evictLocked(e)
	})
}

func (c *Cache) evictLocked(e *entry) {
	delete(c.entries, e.key)
	e.evictTimer = nil
	metrics.RecordEviction()
	c.updateGaugesLocked()
	c.logger.Debug(context.Background(), "evicted", logger.String("key", e.key))
}

func (c *Cache) updateGaugesLocked() {
	metrics.UpdateCacheEntries(len(c.entries))
	metrics.UpdateCacheSubscribers(c.totalSubs)
}
