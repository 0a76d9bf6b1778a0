// Package calendar implements the calendar gateway against the Google
// Calendar API. It derives the wire body from caller-supplied event details
// (timed vs all-day, defaulted end time), rate-limits requests, and maps
// Google API failures into domain errors.
package calendar
