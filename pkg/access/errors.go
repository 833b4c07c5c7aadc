package access

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the request carries no resolvable identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the caller is known but lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

// AuthorizationError describes a failed capability check.
type AuthorizationError struct {
	MemberID string
	Required string
	Err      error
}

func (e *AuthorizationError) Error() string {
	if e.MemberID == "" {
		return fmt.Sprintf("%v: %s required", e.Err, e.Required)
	}
	return fmt.Sprintf("%v: member %s lacks %s", e.Err, e.MemberID, e.Required)
}

func (e *AuthorizationError) Unwrap() error {
	return e.Err
}
