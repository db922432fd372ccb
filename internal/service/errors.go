package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when an operation needs a signed-in user.
	ErrUnauthenticated = errors.New("you must be logged in")

	// ErrNotFound is returned when no event matches the identifier.
	ErrNotFound = errors.New("event not found")

	// ErrEventFull is returned when registering for an event at capacity.
	ErrEventFull = errors.New("event is at capacity")

	// ErrEmailTaken is returned when another account already uses the email.
	ErrEmailTaken = errors.New("email is already taken")

	// ErrInvalidCredentials is returned when no account matches the email.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when the signed-in user does not own the event.
	ErrForbidden = errors.New("only the event organizer can do that")
)

// ValidationError reports a single invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
