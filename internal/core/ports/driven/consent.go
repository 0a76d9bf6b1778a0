package driven

import (
	"context"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// ConsentFlow runs one interactive delegated-consent flow and returns the
// resulting bearer token. The broker guarantees at most one invocation is in
// flight process-wide; implementations do not need their own locking for
// that.
//
// User cancellation, a provider error, or a redirect with no access_token
// fragment parameter are all reported as an error wrapping
// domain.ErrConsentDenied. There is no separate cancellation path: a
// dismissed consent UI is a normal failure outcome.
type ConsentFlow interface {
	// Authorize opens the consent UI and blocks until the redirect arrives,
	// the user gives up, or ctx expires.
	Authorize(ctx context.Context) (*domain.OAuthToken, error)
}
