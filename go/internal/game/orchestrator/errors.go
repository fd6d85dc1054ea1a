package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when a room's lifecycle does not allow the action
	ErrInvalidState = errors.New("invalid room state")
	// ErrInvalidPayload is returned when an inbound event cannot be decoded or validated
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrNotMember is returned when a user acts in a room they never joined
	ErrNotMember = errors.New("user is not a member of the room")
)

// payloadError is an ErrInvalidPayload carrying the text shown to the player
type payloadError struct {
	message string
	cause   error
}

func invalidPayload(message string, cause error) error {
	return &payloadError{message: message, cause: cause}
}

func (e *payloadError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", ErrInvalidPayload, e.message)
	}
	return fmt.Sprintf("%s: %s: %v", ErrInvalidPayload, e.message, e.cause)
}

func (e *payloadError) Is(target error) bool {
	return target == ErrInvalidPayload
}

func (e *payloadError) Unwrap() error {
	return e.cause
}
