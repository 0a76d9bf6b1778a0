package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/core/ports/driving"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Ensure SyncCoordinator implements the interface.
var _ driving.SyncService = (*SyncCoordinator)(nil)

// maxDispatchAttempts bounds the automatic re-authentication retry: one
// initial attempt plus exactly one retry after an unauthorised response.
const maxDispatchAttempts = 2

// Caller-facing failure messages. Remote validation errors pass through
// verbatim instead.
const (
	msgLoginFailed    = "Google login failed."
	msgNetworkFailure = "Network error."
	msgSessionExpired = "Google session expired. Please sign in again."
)

// tokenSource is the slice of the token broker the coordinator needs.
type tokenSource interface {
	// Cached returns a token without launching a consent flow.
	Cached() (string, error)
	// Acquire returns a token, launching or queueing behind a consent flow.
	Acquire(ctx context.Context) (string, error)
	// Invalidate clears a rejected credential.
	Invalidate(ctx context.Context) error
}

// SyncCoordinator turns submitted sync requests into create or update calls
// against the remote calendar.
//
// A request whose card already has a remote event id (from the mapping
// table, or an explicit event id in the request) becomes an update;
// otherwise it is a create, and the returned remote id is recorded so later
// submissions for the same card update it. An unauthorised response
// invalidates the credential and re-dispatches the same request exactly
// once; the intermediate failure is never broadcast.
//
// Requests that arrive while a consent flow is pending queue FIFO and are
// drained sequentially once the flow resolves, so their results are
// delivered in submission order. Requests dispatched against a cached token
// run concurrently with no ordering guarantee.
type SyncCoordinator struct {
	broker    tokenSource
	calendar  driven.CalendarGateway
	mappings  driven.MappingStore
	publisher driven.ResultPublisher
	queue     requestQueue
}

// NewSyncCoordinator creates a sync coordinator.
func NewSyncCoordinator(
	broker tokenSource,
	calendar driven.CalendarGateway,
	mappings driven.MappingStore,
	publisher driven.ResultPublisher,
) *SyncCoordinator {
	return &SyncCoordinator{
		broker:    broker,
		calendar:  calendar,
		mappings:  mappings,
		publisher: publisher,
	}
}

// Submit implements driving.SyncService.
func (c *SyncCoordinator) Submit(_ context.Context, req domain.SyncRequest) error {
	if req.CardID == "" {
		return domain.ErrInvalidInput
	}
	if err := req.Event.Validate(); err != nil {
		return err
	}

	// Ownership of the request transfers here; the submitter is not waited
	// on and the dispatch must survive its departure.
	if _, err := c.broker.Cached(); err == nil {
		go c.publish(c.dispatch(context.Background(), req))
		return nil
	}

	logger.Debug("no cached token, queueing request for card %s", req.CardID)
	if c.queue.Add(req) {
		go c.drain()
	}
	return nil
}

// drain serves one pending window: it rides the single-flight acquisition
// (launching the consent flow if this drainer got there first), then
// dispatches every queued request in FIFO order. On consent failure every
// queued request receives a login-failed result instead.
func (c *SyncCoordinator) drain() {
	ctx := context.Background()
	_, err := c.broker.Acquire(ctx)

	for {
		req, ok := c.queue.Next()
		if !ok {
			return
		}
		if err != nil {
			c.publish(domain.SyncResult{
				CardID:  req.CardID,
				Status:  domain.SyncError,
				Message: msgLoginFailed,
			})
			continue
		}
		c.publish(c.dispatch(ctx, req))
	}
}

// dispatch performs one create-or-update against the remote calendar and
// returns the terminal result. Retry after an unauthorised response is an
// explicit bounded loop, never recursion, so "retry exactly once" holds by
// construction.
func (c *SyncCoordinator) dispatch(ctx context.Context, req domain.SyncRequest) domain.SyncResult {
	var lastErr error

	for attempt := 0; attempt < maxDispatchAttempts; attempt++ {
		token, err := c.broker.Acquire(ctx)
		if err != nil {
			return failureResult(req.CardID, err)
		}

		eventID := req.EventID
		if eventID == "" {
			if id, err := c.mappings.Get(ctx, req.CardID); err == nil {
				eventID = id
			} else if !errors.Is(err, domain.ErrNotFound) {
				logger.Warn("mapping lookup for card %s: %v", req.CardID, err)
			}
		}

		var remoteID string
		if eventID != "" {
			remoteID, err = c.calendar.UpdateEvent(ctx, token, eventID, req.Event)
		} else {
			remoteID, err = c.calendar.CreateEvent(ctx, token, req.Event)
		}

		if errors.Is(err, domain.ErrUnauthorised) {
			logger.Info("credential rejected, invalidating and retrying card %s", req.CardID)
			lastErr = err
			if ierr := c.broker.Invalidate(ctx); ierr != nil {
				logger.Warn("invalidating credential: %v", ierr)
			}
			continue
		}
		if err != nil {
			return failureResult(req.CardID, err)
		}

		if eventID == "" {
			mapping := domain.EventMapping{CardID: req.CardID, EventID: remoteID}
			if merr := c.mappings.Save(ctx, mapping); merr != nil {
				// The create succeeded; a lost mapping only costs idempotence
				// on the next submission for this card.
				logger.Warn("recording mapping %s -> %s: %v", req.CardID, remoteID, merr)
			}
			logger.Info("event created for card %s (%s)", req.CardID, scheduleWording(req.Event))
		} else {
			logger.Info("event updated for card %s (%s)", req.CardID, scheduleWording(req.Event))
		}

		return domain.SyncResult{
			CardID:  req.CardID,
			Status:  domain.SyncSuccess,
			EventID: remoteID,
		}
	}

	return failureResult(req.CardID, lastErr)
}

func (c *SyncCoordinator) publish(result domain.SyncResult) {
	c.publisher.Publish(result)
}

// failureResult maps an error to the caller-visible result message.
func failureResult(cardID string, err error) domain.SyncResult {
	result := domain.SyncResult{CardID: cardID, Status: domain.SyncError}

	var remote *domain.RemoteError
	switch {
	case errors.Is(err, domain.ErrConsentDenied):
		result.Message = msgLoginFailed
	case errors.Is(err, domain.ErrUnauthorised):
		result.Message = msgSessionExpired
	case errors.As(err, &remote):
		result.Message = remote.Message
	case errors.Is(err, domain.ErrNetwork):
		result.Message = msgNetworkFailure
	case err != nil:
		result.Message = err.Error()
	default:
		result.Message = msgLoginFailed
	}
	return result
}

// scheduleWording mirrors the user-facing notification text.
func scheduleWording(e domain.EventDetails) string {
	if e.IsTimed() {
		return "scheduled for " + e.StartTime
	}
	return "scheduled as all day event"
}
