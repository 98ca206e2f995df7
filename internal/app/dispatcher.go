package service

import (
	"context"

	eventqueue "github.com/okian/staffboard/internal/adapters/mq/queue"
	"github.com/okian/staffboard/internal/domain/dedupe"
	"github.com/okian/staffboard/pkg/logger"
	"github.com/okian/staffboard/pkg/metrics"
)

// queueDispatcher hands cache refetches to the worker pool. A key that is
// already waiting in the queue is not queued twice.
type queueDispatcher struct {
	queue   eventqueue.Queue
	pending dedupe.Pending
	newJob  func(key, reason string) eventqueue.Job
	logger  logger.Logger
}

func newQueueDispatcher(q *eventqueue.InMemoryQueue, pending dedupe.Pending, l logger.Logger) *queueDispatcher {
	return &queueDispatcher{queue: q, pending: pending, newJob: q.NewJob, logger: l}
}

func (d *queueDispatcher) Dispatch(ctx context.Context, key, reason string) bool {
	if !d.pending.MarkPending(ctx, key) {
		metrics.RecordQueueCoalesced()
		d.logger.Debug(ctx, "refetch already queued", logger.String("key", key))
		return true
	}
	if !d.queue.Enqueue(ctx, d.newJob(key, reason)) {
		d.pending.Release(ctx, key)
		return false
	}
	return true
}
