package catalog

import "errors"

// Error kinds returned by the workflows. The HTTP boundary maps each
// kind to a status code; anything that does not match one of these is
// treated as an internal failure.
var (
	ErrInvalidInput = errors.New("catalog: invalid input")
	ErrNotFound     = errors.New("catalog: not found")
	ErrConflict     = errors.New("catalog: conflict")
	ErrInvalidState = errors.New("catalog: invalid state")
	ErrUnauthorized = errors.New("catalog: unauthorized")
)

// Error pairs an error kind with a caller-facing message. errors.Is
// matches on the kind, Error() yields the message verbatim.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds a typed workflow error.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
