package calendar

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// WrapError converts a Google API error into a domain error.
//
// A 401 response is the sole signal for credential invalidation; every other
// API-reported failure is terminal for the dispatch and keeps the remote
// message. Anything that never produced an API response is a transport
// failure.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", gerr.Code)
		}
		return &domain.RemoteError{StatusCode: gerr.Code, Message: msg}
	}

	return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
}

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	if errors.Is(err, domain.ErrUnauthorised) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var rerr *domain.RemoteError
	if errors.As(err, &rerr) {
		return rerr.StatusCode == http.StatusTooManyRequests
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}
