// Package session holds the per-request key/value state the form builder
// reads from: validation errors recorded on a previous submission, CSRF
// tokens, and short-lived flash messages.
//
// The builder only depends on the read side (Reader). Store is the in-memory
// implementation used by the demo server and tests; Registry hands out one
// Store per session id.
package session
