package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited indicates rate limit exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrBridgeCallFailed indicates the bridge call could not be completed.
	// The user sees the fixed apology message, never backend text.
	ErrBridgeCallFailed = errors.New("bridge call failed")
	// ErrRequestInFlight indicates a submit arrived while the session was
	// still awaiting a reply. Requests are rejected, not queued.
	ErrRequestInFlight = errors.New("request already in flight")
)

// BridgeFailureMessage is the fixed user-visible text shown when the bridge
// call fails. It is deliberately distinct from any backend-produced reply.
const BridgeFailureMessage = "Sorry, I couldn't reach the assistant. Please try again."
