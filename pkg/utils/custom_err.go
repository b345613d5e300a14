package utils

import (
	"errors"
	"fmt"
)

// Account lifecycle errors
var (
	ErrEmailAlreadyExists = errors.New("email is already in use")        // 400
	ErrAccountNotFound    = errors.New("account not found")              // 404
	ErrInvalidCredentials = errors.New("invalid credentials")            // 400
	ErrPendingApproval    = errors.New("account is pending approval")    // 403
	ErrNotPending         = errors.New("account has no pending request") // 409
	ErrInvalidRole        = errors.New("invalid role")                   // 400
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")      // 400
	ErrForbidden          = errors.New("access denied")                  // 403
)

// Access gate errors
var (
	ErrMissingToken = errors.New("access denied, no token provided") // 403
	ErrInvalidToken = errors.New("invalid or expired token")         // 401
)

// Video errors
var (
	ErrVideoNotFound   = errors.New("video not found")                // 404
	ErrInvalidRating   = errors.New("rating must be between 1 and 5") // 400
	ErrInvalidPage     = errors.New("invalid page parameter")         // 400
	ErrInvalidPageSize = errors.New("invalid page size parameter")    // 400
)

var ErrDatabaseError = errors.New("database error") // 500

// PendingApprovalError is returned by login while a privileged role request awaits a decision.
type PendingApprovalError struct {
	RequestedRole string
}

func (e *PendingApprovalError) Error() string {
	return fmt.Sprintf("%s: requested role %q", ErrPendingApproval, e.RequestedRole)
}

func (e *PendingApprovalError) Is(target error) bool {
	return target == ErrPendingApproval
}
