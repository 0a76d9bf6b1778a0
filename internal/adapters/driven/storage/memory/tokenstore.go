package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore is an in-memory implementation of driven.TokenStore.
// It holds at most one token and loses it on restart.
type TokenStore struct {
	mu    sync.RWMutex
	token *domain.OAuthToken
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Save stores the token, replacing any previous record.
func (s *TokenStore) Save(_ context.Context, token domain.OAuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &token
	return nil
}

// Get retrieves the stored token.
func (s *TokenStore) Get(_ context.Context) (*domain.OAuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, domain.ErrNoToken
	}
	token := *s.token
	return &token, nil
}

// Delete removes the stored token.
func (s *TokenStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}
