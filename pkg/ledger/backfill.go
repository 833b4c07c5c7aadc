package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/golf-league-ledger/pkg/storage"
)

const (
	defaultBackfillLimit = 100
	maxBackfillLimit     = 1000
)

// BackfillResult counts what a member-ID backfill run did.
type BackfillResult struct {
	Scanned   int `json:"scanned"`
	Updated   int `json:"updated"`
	Unmatched int `json:"unmatched"`
}

// AdminBackfillTransactionMemberIDs assigns a member ID to legacy transactions that only carry an
// external user reference. Balances are not touched. Each row is updated in its own unit of work
// and skipped if another writer assigned it first.
func (s *Service) AdminBackfillTransactionMemberIDs(ctx context.Context, limit int32) (result *BackfillResult, err error) {
	defer func() { s.metrics.observe("backfill_member_ids", err) }()

	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	switch {
	case limit < 0 || limit > maxBackfillLimit:
		return nil, invalid("limit", fmt.Sprintf("must be between 1 and %d", maxBackfillLimit))
	case limit == 0:
		limit = defaultBackfillLimit
	}

	candidates, err := s.store.ListUnassignedTransactions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned transactions: %w", err)
	}

	result = &BackfillResult{Scanned: len(candidates)}
	resolved := map[string]string{}
	now := s.clock.Now()
	for _, candidate := range candidates {
		memberID, ok := resolved[candidate.ExternalUserId]
		if !ok {
			member, err := s.store.GetMemberByExternalID(ctx, candidate.ExternalUserId)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				memberID = ""
			case err != nil:
				return nil, fmt.Errorf("failed to resolve external user %s: %w", candidate.ExternalUserId, err)
			default:
				memberID = member.Id
			}
			resolved[candidate.ExternalUserId] = memberID
		}
		if memberID == "" {
			result.Unmatched++
			continue
		}

		updated := false
		err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			current, err := tx.GetTransaction(ctx, candidate.Id)
			if err != nil {
				return fmt.Errorf("failed to load transaction: %w", err)
			}
			if current.MemberId != "" {
				return nil
			}
			current.MemberId = memberID
			current.UpdatedAt = now
			if err := tx.UpdateTransaction(ctx, current); err != nil {
				return fmt.Errorf("failed to assign member: %w", err)
			}
			updated = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to backfill transaction %s: %w", candidate.Id, err)
		}
		if updated {
			result.Updated++
		}
	}

	s.logger.InfoContext(ctx, "member id backfill finished",
		"scanned", result.Scanned,
		"updated", result.Updated,
		"unmatched", result.Unmatched,
	)
	return result, nil
}
