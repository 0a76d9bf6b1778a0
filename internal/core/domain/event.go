package domain

import "regexp"

// DefaultDescription is attached to events whose payload carries none.
const DefaultDescription = "Added via Calbridge"

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// EventDetails are the caller-supplied fields for one calendar event.
type EventDetails struct {
	// Title becomes the event summary.
	Title string `json:"title"`
	// Date is the event date in YYYY-MM-DD form.
	Date string `json:"date"`
	// StartTime is an optional HH:MM time of day. When empty the event is
	// rendered as an all-day event using Date alone.
	StartTime string `json:"startTime,omitempty"`
	// EndTime is an optional HH:MM time of day. When absent or malformed the
	// end defaults to one hour after StartTime, clipped at midnight.
	EndTime string `json:"endTime,omitempty"`
	// Description is optional free text.
	Description string `json:"description,omitempty"`
}

// IsTimed returns true when the event has a usable start time.
func (e EventDetails) IsTimed() bool {
	return timeRe.MatchString(e.StartTime)
}

// HasValidDate returns true when Date is a well-formed YYYY-MM-DD string.
func (e EventDetails) HasValidDate() bool {
	return dateRe.MatchString(e.Date)
}

// Validate checks the minimum shape needed to choose create vs update and
// derive a remote body. Field semantics beyond that are the remote API's
// concern.
func (e EventDetails) Validate() error {
	if e.Title == "" || !e.HasValidDate() {
		return ErrInvalidInput
	}
	return nil
}

// SyncRequest is one logical attempt to create or update a remote event.
// Instances are owned by the request queue until handed to the coordinator;
// after that, ownership ends (fire-and-forget).
type SyncRequest struct {
	// CardID is the caller-supplied opaque identifier, stable across the
	// create-to-update lifecycle of the same logical event.
	CardID string `json:"cardId"`
	// Event holds the event fields.
	Event EventDetails `json:"eventData"`
	// EventID, when present, forces an update against that remote id without
	// consulting the mapping table.
	EventID string `json:"eventId,omitempty"`
}

// SyncStatus is the terminal status of a dispatched request.
type SyncStatus string

const (
	// SyncSuccess means the remote call completed and an event id exists.
	SyncSuccess SyncStatus = "success"
	// SyncError means the dispatch failed terminally.
	SyncError SyncStatus = "error"
)

// SyncResult is the correlated outcome broadcast for one SyncRequest.
// Keyed by CardID so a different UI context than the one that submitted the
// request can render it.
type SyncResult struct {
	CardID  string     `json:"cardId"`
	Status  SyncStatus `json:"status"`
	EventID string     `json:"eventId,omitempty"`
	Message string     `json:"message,omitempty"`
}

// EventMapping records that a card's event exists remotely.
// Written once after a successful create, read before every dispatch, and
// never removed by the sync core.
type EventMapping struct {
	CardID  string `json:"card_id"`
	EventID string `json:"event_id"`
}
