// Package access resolves the caller of an operation and checks its capabilities.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// SystemMemberID identifies in-process jobs in logs and audit reports.
const SystemMemberID = "system"

// Caller is the member on whose behalf an operation runs.
type Caller struct {
	MemberID string
	Role     models.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// CanModerate reports whether the caller is an admin or a moderator.
func (c Caller) CanModerate() bool {
	return c.Role == models.RoleAdmin || c.Role == models.RoleModerator
}

// Resolver turns a request context into a Caller.
type Resolver interface {
	Resolve(ctx context.Context) (Caller, error)
}

// Checker is the single capability check used by the ledger.
type Checker struct {
	resolver Resolver
}

// NewChecker returns a Checker that resolves identities through the member store.
func NewChecker(members storage.MemberReader) *Checker {
	return &Checker{resolver: &memberResolver{members: members}}
}

// Static returns a Checker that always resolves to caller. It is meant for tests and tooling.
func Static(caller Caller) *Checker {
	return &Checker{resolver: staticResolver(caller)}
}

// Caller resolves the caller of the current operation.
func (c *Checker) Caller(ctx context.Context) (Caller, error) {
	if isSystem(ctx) {
		return Caller{MemberID: SystemMemberID, Role: models.RoleAdmin}, nil
	}
	return c.resolver.Resolve(ctx)
}

// RequireAdmin fails unless the caller is an admin.
func (c *Checker) RequireAdmin(ctx context.Context) (Caller, error) {
	caller, err := c.Caller(ctx)
	if err != nil {
		return Caller{}, err
	}
	if !caller.IsAdmin() {
		return Caller{}, &AuthorizationError{MemberID: caller.MemberID, Required: "admin role", Err: ErrForbidden}
	}
	return caller, nil
}

// RequireModerator fails unless the caller is an admin or a moderator.
func (c *Checker) RequireModerator(ctx context.Context) (Caller, error) {
	caller, err := c.Caller(ctx)
	if err != nil {
		return Caller{}, err
	}
	if !caller.CanModerate() {
		return Caller{}, &AuthorizationError{MemberID: caller.MemberID, Required: "moderator role", Err: ErrForbidden}
	}
	return caller, nil
}

// RequireOwner fails unless the caller is memberID, an admin or a moderator.
func (c *Checker) RequireOwner(ctx context.Context, memberID string) (Caller, error) {
	caller, err := c.Caller(ctx)
	if err != nil {
		return Caller{}, err
	}
	if caller.MemberID != memberID && !caller.CanModerate() {
		return Caller{}, &AuthorizationError{MemberID: caller.MemberID, Required: "ownership of " + memberID, Err: ErrForbidden}
	}
	return caller, nil
}

type memberResolver struct {
	members storage.MemberReader
}

func (r *memberResolver) Resolve(ctx context.Context) (Caller, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return Caller{}, &AuthorizationError{Required: "authenticated identity", Err: ErrUnauthenticated}
	}
	member, err := r.members.GetMemberByExternalID(ctx, identity.ExternalID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Caller{}, &AuthorizationError{Required: "registered member", Err: ErrUnauthenticated}
		}
		return Caller{}, fmt.Errorf("failed to resolve caller: %w", err)
	}
	role := member.Role
	if role == "" {
		role = models.RoleRegular
	}
	return Caller{MemberID: member.Id, Role: role}, nil
}

type staticResolver Caller

func (s staticResolver) Resolve(context.Context) (Caller, error) {
	if s.MemberID == "" {
		return Caller{}, &AuthorizationError{Required: "authenticated identity", Err: ErrUnauthenticated}
	}
	return Caller(s), nil
}
