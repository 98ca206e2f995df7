// Package worker drains the refetch queue and refreshes cache entries.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/staffboard/internal/adapters/mq/queue"
	"github.com/okian/staffboard/pkg/logger"
	"github.com/okian/staffboard/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = queue.Job

// Refresher refetches one cache key. The query cache implements it.
type Refresher interface {
	Refetch(ctx context.Context, key string) error
}

// Releaser forgets that a key is pending, so later invalidations queue it again.
type Releaser interface {
	Release(ctx context.Context, key string)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// InMemoryWorker refetches the key of every job it reads off the queue.
type InMemoryWorker struct {
	queue     Queue
	refresher Refresher
	pending   Releaser
	name      string

	processed *atomic.Int64
	failed    *atomic.Int64

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, refresher Refresher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		refresher: refresher,
		name:      "worker",
		processed: &atomic.Int64{},
		failed:    &atomic.Int64{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("worker")
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Warn(ctx, "refetch failed",
					logger.String("job_id", j.ID),
					logger.String("key", j.Key),
					logger.String("reason", j.Reason),
					logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// process runs one job. The pending mark is released first so an
// invalidation that lands while the fetch is running queues a new one.
// Failures are not retried; the cache keeps the error for subscribers.
func (w *InMemoryWorker) process(ctx context.Context, j Job) error {
	start := time.Now()
	defer func() { metrics.RecordWorkerProcessingLatency(metrics.SinceMs(start)) }()

	if w.pending != nil {
		w.pending.Release(ctx, j.Key)
	}
	w.processed.Add(1)

	if err := w.refresher.Refetch(ctx, j.Key); err != nil {
		w.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "refetch_error")
		return fmt.Errorf("refetch %s: %w", j.Key, err)
	}
	w.logger.Debug(ctx, "refetched",
		logger.String("key", j.Key),
		logger.Duration("queued_for", start.Sub(j.EnqueuedAt)))
	return nil
}

// Stats summarizes what a pool has done.
type Stats struct {
	Workers   int   `json:"workers"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	processed atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// runtime.NumCPU().
func NewPool(workerCount int, q Queue, refresher Refresher, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
	}

	for i := 0; i < workerCount; i++ {
		w := NewInMemoryWorker(q, refresher, append(opts, WithName("worker-"+strconv.Itoa(i)))...)
		w.processed = &p.processed
		w.failed = &p.failed
		p.workers[i] = w
	}
	tmpl := &InMemoryWorker{}
	for _, opt := range opts {
		opt(tmpl)
	}
	if tmpl.logger == nil {
		tmpl.logger = logger.Get()
	}
	p.logger = tmpl.logger.Named("worker-pool")

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stats returns the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{Workers: len(p.workers), Processed: p.processed.Load(), Failed: p.failed.Load()}
}

// Shutdown closes the queue and waits for the workers to stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
