package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

// Ensure MappingStore implements the interface.
var _ driven.MappingStore = (*MappingStore)(nil)

// MappingStore is an in-memory implementation of driven.MappingStore.
type MappingStore struct {
	mu       sync.RWMutex
	mappings map[string]string
}

// NewMappingStore creates a new in-memory mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		mappings: make(map[string]string),
	}
}

// Save stores a mapping. Saving an existing card id overwrites it.
func (s *MappingStore) Save(_ context.Context, mapping domain.EventMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[mapping.CardID] = mapping.EventID
	return nil
}

// Get retrieves the remote event id for a card.
func (s *MappingStore) Get(_ context.Context, cardID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	eventID, ok := s.mappings[cardID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return eventID, nil
}

// List returns all known mappings.
func (s *MappingStore) List(_ context.Context) ([]domain.EventMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.EventMapping, 0, len(s.mappings))
	for cardID, eventID := range s.mappings {
		result = append(result, domain.EventMapping{CardID: cardID, EventID: eventID})
	}
	return result, nil
}
