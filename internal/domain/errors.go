package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIdentity marks a malformed user identity string.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrStoreUnavailable marks an unreachable turn store backend.
	ErrStoreUnavailable = errors.New("turn store unavailable")

	// ErrNotIdentified marks a session operation before Identify succeeded.
	ErrNotIdentified = errors.New("session not identified")

	// ErrNoConversation marks a session operation requiring an active conversation.
	ErrNoConversation = errors.New("no active conversation")

	// ErrEmptyInput marks a submission with no content. Callers treat it
	// as a no-op: no turn is created.
	ErrEmptyInput = errors.New("empty input")
)

// APIError is a non-success response from the completion endpoint. The
// status code and raw body are carried verbatim so the boundary can show
// both to the user.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API error: status=%d body=%s", e.StatusCode, e.Body)
}

// NetworkError is a transport-level failure reaching the completion endpoint.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("completion network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
