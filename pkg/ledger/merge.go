package ledger

import (
	"context"
	"fmt"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// MergeResult counts what a member merge moved.
type MergeResult struct {
	SourceID          string `json:"sourceId"`
	TargetID          string `json:"targetId"`
	TransactionsMoved int    `json:"transactionsMoved"`
	TourCardsMoved    int    `json:"tourCardsMoved"`
	TourCardsReplaced int    `json:"tourCardsReplaced"`
	AccountMovedCents int64  `json:"accountMovedCents"`
}

// AdminMergeMembers moves every transaction and tour card of source to target, adds the source
// account into the target and deletes the source member, all in one unit of work.
// Balances move in bulk; individual transactions are not re-evaluated.
//
// When the target already holds a tour card for a season the source also plays, the merge fails
// with ErrMergeConflict unless overwriteConflict is set, in which case the target's card is deleted.
func (s *Service) AdminMergeMembers(ctx context.Context, sourceID, targetID string, overwriteConflict bool) (result *MergeResult, err error) {
	defer func() { s.metrics.observe("merge_members", err) }()

	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	switch {
	case sourceID == "":
		return nil, invalid("sourceId", "is required")
	case targetID == "":
		return nil, invalid("targetId", "is required")
	case sourceID == targetID:
		return nil, invalid("targetId", "must differ from sourceId")
	}

	now := s.clock.Now()
	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		result = &MergeResult{SourceID: sourceID, TargetID: targetID}

		source, err := tx.GetMember(ctx, sourceID)
		if err != nil {
			return fmt.Errorf("failed to load source member: %w", err)
		}
		if _, err := tx.GetMember(ctx, targetID); err != nil {
			return fmt.Errorf("failed to load target member: %w", err)
		}

		txs, err := tx.ListTransactionsByMember(ctx, sourceID)
		if err != nil {
			return fmt.Errorf("failed to list source transactions: %w", err)
		}
		for i := range txs {
			moved := txs[i]
			moved.MemberId = targetID
			moved.UpdatedAt = now
			if err := tx.UpdateTransaction(ctx, &moved); err != nil {
				return fmt.Errorf("failed to move transaction %s: %w", moved.Id, err)
			}
			result.TransactionsMoved++
		}

		if err := s.moveTourCards(ctx, tx, result, overwriteConflict); err != nil {
			return err
		}

		if source.Account != 0 {
			if err := tx.AdjustMemberAccount(ctx, targetID, source.Account, now); err != nil {
				return fmt.Errorf("failed to move account balance: %w", err)
			}
			result.AccountMovedCents = source.Account
		}

		remainingTxs, err := tx.ListTransactionsByMember(ctx, sourceID)
		if err != nil {
			return fmt.Errorf("failed to verify source transactions: %w", err)
		}
		remainingCards, err := tx.ListTourCardsByMember(ctx, sourceID)
		if err != nil {
			return fmt.Errorf("failed to verify source tour cards: %w", err)
		}
		if len(remainingTxs) > 0 || len(remainingCards) > 0 {
			return fmt.Errorf("%w: %d transactions and %d tour cards still reference %s",
				ErrMergeIncomplete, len(remainingTxs), len(remainingCards), sourceID)
		}

		if err := tx.DeleteMember(ctx, sourceID); err != nil {
			return fmt.Errorf("failed to delete source member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.balanceMutation(result.AccountMovedCents)
	s.logger.InfoContext(ctx, "members merged",
		"source_id", sourceID,
		"target_id", targetID,
		"transactions_moved", result.TransactionsMoved,
		"tour_cards_moved", result.TourCardsMoved,
		"tour_cards_replaced", result.TourCardsReplaced,
		"account_moved", result.AccountMovedCents,
	)
	return result, nil
}

func (s *Service) moveTourCards(ctx context.Context, tx storage.Tx, result *MergeResult, overwriteConflict bool) error {
	sourceCards, err := tx.ListTourCardsByMember(ctx, result.SourceID)
	if err != nil {
		return fmt.Errorf("failed to list source tour cards: %w", err)
	}
	targetCards, err := tx.ListTourCardsByMember(ctx, result.TargetID)
	if err != nil {
		return fmt.Errorf("failed to list target tour cards: %w", err)
	}
	targetBySeason := make(map[string]models.TourCard, len(targetCards))
	for _, c := range targetCards {
		targetBySeason[c.SeasonId] = c
	}

	for i := range sourceCards {
		card := sourceCards[i]
		if existing, ok := targetBySeason[card.SeasonId]; ok {
			if !overwriteConflict {
				return fmt.Errorf("%w: %s already holds tour card %s for season %s",
					ErrMergeConflict, result.TargetID, existing.Id, card.SeasonId)
			}
			if err := tx.DeleteTourCard(ctx, existing.Id); err != nil {
				return fmt.Errorf("failed to delete conflicting tour card %s: %w", existing.Id, err)
			}
			result.TourCardsReplaced++
		}
		card.MemberId = result.TargetID
		if err := tx.UpdateTourCard(ctx, &card); err != nil {
			return fmt.Errorf("failed to move tour card %s: %w", card.Id, err)
		}
		result.TourCardsMoved++
	}
	return nil
}
