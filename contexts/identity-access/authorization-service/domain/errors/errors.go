package errors

import "errors"

var (
	// ErrMissingAdminRole preserves the wire-compatible denial reason for
	// admin-gated mutations.
	ErrMissingAdminRole = errors.New("AccessControl: sender does not have required role")

	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidActor    = errors.New("invalid actor")
	ErrInvalidSender   = errors.New("invalid sender")
	ErrRoleAlreadyHeld = errors.New("role already granted")
	ErrRoleNotHeld     = errors.New("role not granted")
)
