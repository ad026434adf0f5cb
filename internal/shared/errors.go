package shared

import "errors"

var (
	// ErrInvalidCredentials indicates login failure. Deliberately
	// non-specific: callers must not learn whether the username or the
	// password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, malformed or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates a valid identity with insufficient role or permission.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates a malformed request shape.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrRepositoryUnavailable indicates a collaborator store could not be reached.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
