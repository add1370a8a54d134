// Package apperr holds the error kinds shared by the workflow core, the
// repositories and the HTTP adaptors. Callers wrap them with %w and match
// with errors.Is.
package apperr

import "errors"

var (
	ErrUnknownRole       = errors.New("unknown role")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAuditFailure      = errors.New("audit failure")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotImplemented    = errors.New("not implemented")
)

// Kind returns the name of the first known kind err wraps, or "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuditFailure):
		return "audit_failure"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnknownRole):
		return "unknown_role"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotImplemented):
		return "not_implemented"
	default:
		return "internal"
	}
}
