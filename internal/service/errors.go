// Package service holds the business rules of the content generator:
// registration and login, request authentication, the admin gate, content
// generation and the admin management operations. Handlers translate the
// sentinel errors below into HTTP responses.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict reports a username or email that is already taken.
	ErrConflict = errors.New("username or email already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")

	// ErrUnauthorized is the root of every authentication failure. Clients
	// only ever see this one; the wrapped reason is for logs.
	ErrUnauthorized         = errors.New("unauthorized")
	ErrMissingCredentials   = fmt.Errorf("%w: missing credentials", ErrUnauthorized)
	ErrMalformedCredentials = fmt.Errorf("%w: malformed credentials", ErrUnauthorized)
	ErrUnknownSubject       = fmt.Errorf("%w: unknown or inactive subject", ErrUnauthorized)

	ErrForbidden        = errors.New("admin privileges required")
	ErrSelfModification = errors.New("admins cannot deactivate, demote or delete their own account")

	ErrGeneratorUnavailable = errors.New("generation service is not configured")
	ErrGeneration           = errors.New("generation failed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
