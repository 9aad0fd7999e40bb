package domain

import "errors"

var (
	// ErrUserExists is returned when a registration collides with an
	// existing email or username.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleNotFound is returned when no role matches the lookup key.
	ErrRoleNotFound = errors.New("role not found")

	// ErrInvalidCredentials covers bad login input and failed password
	// verification alike, so callers can't probe which half was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordWriteOnly marks an attempt to read the password property.
	// It signals a programming error, not a recoverable condition.
	ErrPasswordWriteOnly = errors.New("password is a write-only attribute")

	// ErrForbidden is returned when an actor lacks the required permission.
	ErrForbidden = errors.New("access forbidden")

	// ErrLoginRateLimited is returned when too many login attempts were made
	// for the same account or address within the throttle window.
	ErrLoginRateLimited = errors.New("too many login attempts")
)
