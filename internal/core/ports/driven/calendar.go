package driven

import (
	"context"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// CalendarGateway performs create and update calls against the remote
// calendar API. Implementations derive the wire body from the event details
// (timed vs all-day, defaulted end time) and map transport failures into
// domain errors:
//
//   - 401-equivalent responses  -> domain.ErrUnauthorised
//   - any other non-2xx         -> domain.ErrRemoteRejected (wrapped with the
//     remote-supplied message)
//   - transport-level failures  -> domain.ErrNetwork
//
// The 401 mapping is the sole signal the coordinator uses for credential
// invalidation.
type CalendarGateway interface {
	// CreateEvent inserts a new event and returns the remote event id.
	CreateEvent(ctx context.Context, token string, details domain.EventDetails) (string, error)

	// UpdateEvent patches an existing event and returns its remote event id.
	UpdateEvent(ctx context.Context, token string, eventID string, details domain.EventDetails) (string, error)
}
