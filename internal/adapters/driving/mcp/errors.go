// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Calbridge. It lets AI assistants schedule calendar events and summarise
// mail through the same core services the HTTP API uses.
package mcp

import "errors"

// ErrMissingSyncService is returned when the sync service is not provided.
var ErrMissingSyncService = errors.New("mcp: sync service is required")
