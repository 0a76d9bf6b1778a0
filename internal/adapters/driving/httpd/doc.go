// Package httpd exposes the sync, auth, and assistant services over a
// localhost JSON API. Sync submissions are fire-and-forget; their outcomes
// arrive over the websocket result broadcast, keyed by card id.
package httpd
