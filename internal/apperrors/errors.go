package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel failure kinds returned by the core use cases. Callers match with
// errors.Is; the HTTP layer translates them to status codes.
var (
	// ErrInsufficientStock: the requested delta would drive a stock level
	// below zero. Recoverable with a smaller delta.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConcurrentModification: optimistic version conflict on a stock
	// level. Recoverable by re-reading and retrying.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInvalidTransition: illegal transfer status change.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNotFound: referenced entity absent or not owned by the tenant.
	ErrNotFound = errors.New("not found")

	// ErrValidation: malformed input.
	ErrValidation = errors.New("validation error")
)

// Validationf wraps ErrValidation with a caller-facing reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound naming the missing entity.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// InvalidTransitionf wraps ErrInvalidTransition with the attempted change.
func InvalidTransitionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidTransition}, args...)...)
}
