package worker

import (
	"github.com/okian/staffboard/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithPending makes the worker release each key from the pending set before
// refetching it.
func WithPending(p Releaser) Option {
	return func(w *InMemoryWorker) {
		if p != nil {
			w.pending = p
		}
	}
}
