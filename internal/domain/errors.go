package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation     = errors.New("validation")
	ErrAuthentication = errors.New("authentication")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
)

// Error carries one of the sentinel kinds above plus a caller-facing message.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Is(target error) bool { return target == e.Kind }
func (e *Error) Unwrap() error        { return e.Err }

func Validation(msg string) error     { return &Error{Kind: ErrValidation, Msg: msg} }
func Authentication(msg string) error { return &Error{Kind: ErrAuthentication, Msg: msg} }
func Forbidden(msg string) error      { return &Error{Kind: ErrForbidden, Msg: msg} }
func NotFound(msg string) error       { return &Error{Kind: ErrNotFound, Msg: msg} }

// IdentityError mirrors a single identity policy failure.
type IdentityError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// IdentityErrors is returned by the identity store when a credential or
// uniqueness rule rejects a user. It counts as a validation failure.
type IdentityErrors []IdentityError

func (e IdentityErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ie := range e {
		parts = append(parts, ie.Description)
	}
	return strings.Join(parts, ", ")
}

func (e IdentityErrors) Is(target error) bool { return target == ErrValidation }
