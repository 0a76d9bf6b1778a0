// Package sqlite provides SQLite-backed implementations of the storage
// ports. A single database file holds the delegated token and the card to
// remote event id mappings; schema changes run as embedded migrations on
// open.
package sqlite
