// Package common defines the sentinel errors shared by the repository,
// service and handler layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Auth errors. Both credential failures share one value so callers
	// cannot tell a missing account from a wrong password.
	ErrDuplicateAccount   = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Input errors.
	ErrMalformedID = errors.New("malformed id")
	ErrValidation  = errors.New("validation error")
)
