package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Services return these (usually wrapped with context via fmt.Errorf and %w)
// instead of HTTP status codes; the API layer maps them with errors.Is. This
// keeps the business logic free of transport concerns.

var (
	// ErrValidation signifies that client input failed validation, such as a
	// blank chat message. Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrBusy signifies that a session already has a turn in flight and the
	// new submission was rejected. The caller is expected to retry once the
	// current turn completes. Mapped to 409 Conflict.
	ErrBusy = errors.New("session busy")

	// ErrProcessing signifies that the completion engine failed or timed out
	// while producing a reply. The turn is still recorded with a fallback
	// assistant message. Mapped to 500 on non-streaming requests.
	ErrProcessing = errors.New("processing failed")

	// ErrInternal signifies an unexpected server-side error. Used to avoid
	// leaking implementation details to the client. Mapped to 500.
	ErrInternal = errors.New("internal server error")
)
