package dynamo

import "errors"

// Domain errors for body store operations.
var (
	// ErrUnknownBody indicates an identifier that is not present in the store.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrNegativeMass indicates a negative or NaN mass was supplied.
	ErrNegativeMass = errors.New("dynamo: mass must be non-negative")

	// ErrInvalidVector indicates a position or velocity with NaN or Inf components.
	ErrInvalidVector = errors.New("dynamo: vector has NaN or Inf component")
)

// BodyError wraps an error with the body it concerns.
type BodyError struct {
	ID      ID
	Wrapped error
}

func (e *BodyError) Error() string {
	return e.Wrapped.Error() + " (id " + e.ID.String() + ")"
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
