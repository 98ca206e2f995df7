// Package dedupe tracks cache keys that already have a refetch pending, so a
// burst of invalidations collapses into one refetch per key.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// Pending is a set of keys waiting to be refetched.
type Pending interface {
	// MarkPending records key and reports true when it was not pending yet.
	// A false result means a refetch is already queued and the caller can
	// drop its own.
	MarkPending(ctx context.Context, key string) bool

	// Release removes key so a later invalidation queues it again. Workers
	// call it when they pick the key up, and enqueuers call it when the
	// queue rejected the job.
	Release(ctx context.Context, key string)

	Size() int64
}

// inMemoryPending keeps keys in insertion order. When bounded and full, the
// oldest key is forgotten, which at worst lets that key be queued twice.
type inMemoryPending struct {
	mu      sync.Mutex
	keys    map[string]*list.Element
	order   *list.List // front is the oldest key
	maxSize int        // 0 or negative means unbounded
}

// NewPending creates an in-memory pending set.
func NewPending(opts ...Option) Pending {
	p := &inMemoryPending{
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.keys = make(map[string]*list.Element)
	p.order = list.New()
	return p
}

func (p *inMemoryPending) MarkPending(_ context.Context, key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.keys[key]; exists {
		return false
	}
	if p.maxSize > 0 && len(p.keys) >= p.maxSize {
		p.evictOldest()
	}
	p.keys[key] = p.order.PushBack(key)
	return true
}

func (p *inMemoryPending) Release(_ context.Context, key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if el, exists := p.keys[key]; exists {
		p.order.Remove(el)
		delete(p.keys, key)
	}
}

// evictOldest must be called with p.mu held.
func (p *inMemoryPending) evictOldest() {
	front := p.order.Front()
	if front == nil {
		return
	}
	p.order.Remove(front)
	delete(p.keys, front.Value.(string))
}

func (p *inMemoryPending) Size() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.keys))
}
