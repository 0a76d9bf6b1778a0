// Package consent implements the interactive Google consent flow using the
// OAuth implicit grant. It opens the user's browser at the Google consent
// screen, receives the redirect on a local callback server, and relays the
// access token out of the URL fragment (which never reaches the server
// directly) via a small in-page script.
package consent
