package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// AuthStatus describes the current credential session.
type AuthStatus struct {
	// State is the session state (idle, pending, ready).
	State domain.AuthState `json:"state"`
	// ExpiresAt is when the cached token expires. Zero unless State is ready.
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// AuthService manages the delegated-credential session.
type AuthService interface {
	// Login forces an interactive token acquisition when no valid token is
	// cached. Returns domain.ErrConsentDenied on cancellation or failure.
	Login(ctx context.Context) error

	// SwitchAccount clears the cached and persisted credential
	// unconditionally. The next submission re-prompts for consent; no remote
	// call happens here.
	SwitchAccount(ctx context.Context) error

	// Status reports the current session state.
	Status(ctx context.Context) AuthStatus
}
