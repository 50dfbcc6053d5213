package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "validation failed"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AuthFailure records which login check failed. It is only ever logged.
type AuthFailure string

const (
	AuthUserNotFound  AuthFailure = "not_found"
	AuthBadCredential AuthFailure = "bad_credential"
	AuthRoleMismatch  AuthFailure = "role_mismatch"
)

// AuthFailedMessage is the single message shown for every login failure.
const AuthFailedMessage = "Invalid username or password."

type AuthError struct {
	Reason AuthFailure
}

func (e *AuthError) Error() string { return AuthFailedMessage }

type AccessDeniedError struct {
	Required Role
}

func (e *AccessDeniedError) Error() string {
	return DenialMessage(e.Required)
}

// DenialMessage names the role a protected route requires.
func DenialMessage(required Role) string {
	return fmt.Sprintf("Unauthorized access. Please log in as a %s.", required.Lower())
}
