package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrConsentDenied indicates the user cancelled the consent flow or the
	// provider returned no token. Terminal for every request queued behind
	// the flow; no retry.
	ErrConsentDenied = errors.New("consent denied")

	// ErrUnauthorised indicates the remote API rejected the credential.
	// The coordinator recovers from this exactly once per dispatch by
	// invalidating the cached token and re-acquiring.
	ErrUnauthorised = errors.New("credential rejected")

	// ErrNoToken indicates no cached, non-expired token is available.
	ErrNoToken = errors.New("no cached token")

	// ErrConsentInProgress indicates an interactive consent flow is already
	// in flight. Used by non-blocking callers; blocking callers queue instead.
	ErrConsentInProgress = errors.New("consent flow in progress")

	// Remote API Errors.

	// ErrRemoteRejected indicates the calendar API rejected the request for
	// a reason other than authentication. Terminal, message passed through.
	ErrRemoteRejected = errors.New("remote rejected request")

	// ErrNetwork indicates a transport-level failure reaching the remote API.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Assistant Errors.

	// ErrLLMUnavailable indicates the text-generation service is not
	// configured. Summarisation and event extraction are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// RemoteError carries the remote calendar API's own account of a failed
// call. The message is surfaced to the UI verbatim for validation failures.
type RemoteError struct {
	// StatusCode is the HTTP-equivalent status the remote returned.
	StatusCode int
	// Message is the remote-supplied error message.
	Message string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap classifies the failure: a 401-equivalent is the sole signal for
// credential invalidation, everything else is terminal for the dispatch.
func (e *RemoteError) Unwrap() error {
	if e.StatusCode == 401 {
		return ErrUnauthorised
	}
	return ErrRemoteRejected
}
