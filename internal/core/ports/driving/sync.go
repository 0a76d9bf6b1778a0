package driving

import (
	"context"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// SyncService accepts calendar sync requests from UI surfaces.
//
// Submit is fire-and-forget: it validates the request, then either
// dispatches it immediately (token cached) or queues it behind the in-flight
// consent flow. The terminal outcome arrives through the result broadcast,
// keyed by card id, exactly once per request.
type SyncService interface {
	// Submit accepts one sync request. The returned error covers input
	// validation only; dispatch outcomes are broadcast.
	Submit(ctx context.Context, req domain.SyncRequest) error
}
