// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The token broker and sync coordinator here are the only parts of the
// application with real state-machine and concurrency concerns; everything
// else is stateless request/response plumbing.
//
// Services are pure Go with no external dependencies.
package services
