package driven

import (
	"context"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// MappingStore persists cardId to remote event id mappings.
// A mapping is written once after a successful create and consulted before
// every dispatch to decide create vs update. The sync core never removes
// mappings; editing or forgetting a card is a UI concern.
type MappingStore interface {
	// Save stores a mapping. Saving an existing card id overwrites it.
	Save(ctx context.Context, mapping domain.EventMapping) error

	// Get retrieves the remote event id for a card.
	// Returns domain.ErrNotFound when the card has never been created.
	Get(ctx context.Context, cardID string) (string, error)

	// List returns all known mappings.
	List(ctx context.Context) ([]domain.EventMapping, error)
}
