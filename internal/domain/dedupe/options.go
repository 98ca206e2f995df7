package dedupe

// Option applies a configuration option to the pending set.
type Option func(*inMemoryPending)

// WithMaxSize bounds the number of tracked keys.
// If maxSize > 0: bounded, the oldest key is dropped when full.
// If maxSize <= 0: unbounded.
func WithMaxSize(maxSize int) Option {
	return func(p *inMemoryPending) {
		p.maxSize = maxSize
	}
}
