package querycache_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/staffboard/internal/adapters/querycache"
)

// fakeFetcher answers through respond, which receives the per-path call number.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	respond func(req querycache.Request, call int) ([]byte, error)
}

func newFakeFetcher(respond func(req querycache.Request, call int) ([]byte, error)) *fakeFetcher {
	if respond == nil {
		respond = func(req querycache.Request, call int) ([]byte, error) {
			return []byte(fmt.Sprintf("%s#%d", req.Path, call)), nil
		}
	}
	return &fakeFetcher{calls: make(map[string]int), respond: respond}
}

func (f *fakeFetcher) Do(_ context.Context, req querycache.Request) ([]byte, error) {
	f.mu.Lock()
	f.calls[req.Path]++
	n := f.calls[req.Path]
	f.mu.Unlock()
	return f.respond(req, n)
}

func (f *fakeFetcher) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// eventually polls cond until it holds or the deadline passes.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func waitCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

func get(path string) querycache.Request {
	return querycache.Request{Method: "GET", Path: path}
}
