package storage

import (
	"context"

	"github.com/chris/golf-league-ledger/pkg/models"
)

// MemberReader defines read access to league members.
type MemberReader interface {
	// GetMember retrieves a member by ID.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// GetMemberByExternalID resolves an identity-provider reference into a member.
	GetMemberByExternalID(ctx context.Context, externalID string) (*models.Member, error)

	// ListMembers retrieves every member.
	ListMembers(ctx context.Context) ([]models.Member, error)
}
