// Package memory provides in-memory implementations of the storage ports.
// Used in tests and when running without a data directory.
package memory
