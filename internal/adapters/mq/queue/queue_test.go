package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	q := NewInMemoryQueue(WithCapacity(2), WithClock(fc))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, q.NewJob("GET /users", "invalidated")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	j := <-q.Dequeue(ctx)
	if j.Key != "GET /users" || j.Reason != "invalidated" {
		t.Errorf("unexpected job %+v", j)
	}
	if j.ID == "" {
		t.Error("expected job id to be set")
	}
	if !j.EnqueuedAt.Equal(fc.Now()) {
		t.Errorf("expected enqueue time %v, got %v", fc.Now(), j.EnqueuedAt)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_FillsMissingFields(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if !q.Enqueue(ctx, Job{Key: "GET /project"}) {
		t.Fatal("expected enqueue to succeed")
	}
	j := <-q.Dequeue(ctx)
	if j.ID == "" || j.EnqueuedAt.IsZero() {
		t.Errorf("expected id and timestamp to be filled, got %+v", j)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if !q.Enqueue(ctx, q.NewJob(fmt.Sprintf("k%d", i), "invalidated")) {
			t.Error("expected enqueue to succeed")
		}
	}
	if q.Enqueue(ctx, q.NewJob("k2", "invalidated")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
	if c := q.Capacity(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}
}

func TestInMemoryQueue_CanceledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, q.NewJob("k", "invalidated")) {
		t.Error("expected enqueue with canceled context to fail")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()
	const producers, perProducer = 10, 100

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Enqueue(ctx, q.NewJob(fmt.Sprintf("p%d-%d", id, j), "invalidated"))
			}
		}(i)
	}
	wg.Wait()

	if l := q.Len(ctx); l != producers*perProducer {
		t.Errorf("expected length %d, got %d", producers*perProducer, l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	q.Enqueue(ctx, q.NewJob("a", "invalidated"))
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, q.NewJob("b", "invalidated")) {
		t.Error("expected enqueue after close to fail")
	}

	var got []string
	for j := range q.Dequeue(ctx) {
		got = append(got, j.Key)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("expected queued job to drain after close, got %v", got)
	}
}
