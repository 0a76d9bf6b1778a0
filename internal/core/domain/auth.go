package domain

import "time"

// AuthState is the state of the process-wide delegated-credential session.
//
// The session is owned exclusively by the token broker; every transition
// goes through its acquire/invalidate/drain operations. At most one
// StatePending session exists process-wide at any time, and entering
// StatePending is the only trigger for launching an interactive consent flow.
type AuthState string

const (
	// StateIdle means no credential is cached and no consent flow is running.
	StateIdle AuthState = "idle"
	// StatePending means an interactive consent flow is in flight.
	// Callers arriving in this state are queued behind it.
	StatePending AuthState = "pending"
	// StateReady means a non-expired bearer token is cached.
	StateReady AuthState = "ready"
)

// OAuthToken represents a delegated bearer credential.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// Expiry is when the access token expires. A zero Expiry means the
	// provider did not report one; the broker applies its TTL policy.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the token has expired.
// A token whose Expiry has passed must be treated as absent even when the
// durable record still holds it; a restarted process rehydrates from storage
// and the original expiry timer is gone.
func (t *OAuthToken) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}
