package auth

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownEmail       = errors.New("email is not registered")
	ErrUnknownAccount     = errors.New("account does not exist")
	ErrNoValidCode        = errors.New("no valid reset code for this account")
	ErrCodeMismatch       = errors.New("reset code does not match")
)

// ValidationError marks malformed or missing client input. The HTTP
// boundary maps it to a 400 with the message as-is.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
