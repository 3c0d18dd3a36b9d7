package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched (via errors.Is) by every validation failure
// returned from this package. The error text is safe to show to users.
var ErrInvalidInput = errors.New("invalid input")

// ErrForbidden is returned when the acting user's role does not allow the operation.
var ErrForbidden = errors.New("access denied")

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrInvalidInput }

func invalidf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}
