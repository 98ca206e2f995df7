// Package credentials holds the bearer token attached to outgoing API requests.
package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Provider returns the current bearer token, or "" when signed out.
// It is consulted on every send, so a token change applies to the next request.
type Provider interface {
	Token(ctx context.Context) string
}

// Store is an in-memory token holder safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore returns a Store seeded with initial (whitespace trimmed).
func NewStore(initial string) *Store {
	return &Store{token: strings.TrimSpace(initial)}
}

// LoadFile reads a token from path. The file holds the token and nothing else.
func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenFile, err)
	}
	return NewStore(string(raw)), nil
}

// Token implements Provider.
func (s *Store) Token(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set replaces the token.
func (s *Store) Set(token string) {
	s.mu.Lock()
	s.token = strings.TrimSpace(token)
	s.mu.Unlock()
}

// Clear signs out.
func (s *Store) Clear() { s.Set("") }

// Static is a fixed-token Provider.
type Static string

// Token implements Provider.
func (t Static) Token(context.Context) string { return string(t) }
