package driven

import (
	"context"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// TokenStore persists the single process-wide delegated credential.
// Exactly one record exists; absence means the session is idle.
//
// The broker writes the record before resolving any queued waiter, so a
// waiter can never observe a token that storage has not yet accepted.
type TokenStore interface {
	// Save stores the token, replacing any previous record.
	Save(ctx context.Context, token domain.OAuthToken) error

	// Get retrieves the stored token.
	// Returns domain.ErrNoToken when no record exists.
	Get(ctx context.Context) (*domain.OAuthToken, error)

	// Delete removes the stored token. Deleting an absent record is not an
	// error.
	Delete(ctx context.Context) error
}
