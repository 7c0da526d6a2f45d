// Package memory provides an in-memory token store for tests and throwaway
// processes. Nothing survives the process.
package memory

import (
	"context"
	"sync"

	"github.com/docuchat/docuchat-go/session"
)

// Store implements session.TokenStore in process memory.
type Store struct {
	mu     sync.RWMutex
	tokens *session.Tokens
}

var _ session.TokenStore = (*Store)(nil)

// NewStore creates an empty in-memory token store.
func NewStore() *Store {
	return &Store{}
}

// Save stores a copy of the token pair.
func (s *Store) Save(ctx context.Context, tokens *session.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *tokens
	s.tokens = &copied
	return nil
}

// Load retrieves the stored pair.
func (s *Store) Load(ctx context.Context) (*session.Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return nil, session.ErrNoSession
	}
	copied := *s.tokens
	return &copied, nil
}

// Clear removes the stored pair.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = nil
	return nil
}
