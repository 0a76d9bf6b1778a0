// Package domain defines the core business entities for Calbridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AuthState: The process-wide delegated-credential state machine states
//   - OAuthToken: A delegated bearer credential with expiry
//   - SyncRequest: One logical attempt to create or update a calendar event
//   - SyncResult: The correlated outcome broadcast back to the UI
//   - EventDetails: The caller-supplied event fields
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
