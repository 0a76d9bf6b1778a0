package mcp

import (
	"github.com/custodia-labs/calbridge/internal/adapters/driven/publish"
	"github.com/custodia-labs/calbridge/internal/core/ports/driving"
)

// Ports aggregates all interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Sync accepts calendar sync requests.
	Sync driving.SyncService

	// Assistant summarises mail bodies. Optional; when nil the
	// summarise_mail tool reports the model as unavailable.
	Assistant driving.AssistantService

	// Results lets schedule_event wait for its own broadcast outcome.
	// Optional; when nil the tool returns as soon as the request is
	// accepted.
	Results *publish.Fanout
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Sync == nil {
		return ErrMissingSyncService
	}
	// Assistant and Results are optional
	return nil
}
