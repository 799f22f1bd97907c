// Package service implements the business rules of the rental system on
// top of the repository layer.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/car-rental/internal/repository"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrCarUnavailable     = errors.New("car is not available")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

// Error pairs a kind with a client-facing message and the underlying
// cause, if any.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// translate turns repository errors into service errors. Errors it does
// not recognise are returned wrapped with op for the logs.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrCarNotFound):
		return &Error{Kind: ErrNotFound, Msg: "car not found", Err: err}
	case errors.Is(err, repository.ErrUserNotFound):
		return &Error{Kind: ErrNotFound, Msg: "user not found", Err: err}
	case errors.Is(err, repository.ErrRentalNotFound):
		return &Error{Kind: ErrNotFound, Msg: "rental not found", Err: err}
	case errors.Is(err, repository.ErrEmailExists):
		return &Error{Kind: ErrEmailExists, Msg: "email already exists", Err: err}
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
