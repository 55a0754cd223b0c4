package chat

import "errors"

// Sentinel errors the HTTP layer maps to status codes.
var (
	// ErrRateLimited means the caller exhausted its request window.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrSessionNotFound means the session is unknown or has expired.
	ErrSessionNotFound = errors.New("session not found")
)
