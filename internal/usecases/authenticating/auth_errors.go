package authenticating

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken  = errors.New("invalid bearer token")
	ErrExpiredToken  = errors.New("bearer token expired")
	ErrMissingSecret = errors.New("secret key not configured")
)

// AuthError liga a falha de validação ao código devolvido pela API
type AuthError struct {
	Err    error
	Code   string
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

func rejectToken(err error, code string, cause error) *AuthError {
	authErr := &AuthError{Err: err, Code: code}
	if cause != nil {
		authErr.Reason = cause.Error()
	}
	return authErr
}
