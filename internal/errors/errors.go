package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrUnavailable marks features whose backing tables are not wired yet.
	// Callers use it to tell "no rows" apart from "not implemented".
	ErrUnavailable = errors.New("unavailable")
)

func NewInternal(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInternal}, a...)...)
}

func NewNotFound(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, a...)...)
}

func NewConflict(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, a...)...)
}

func NewInvalidInput(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, a...)...)
}

func NewUnavailable(feature string) error {
	return fmt.Errorf("%w: %s is not available yet", ErrUnavailable, feature)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
