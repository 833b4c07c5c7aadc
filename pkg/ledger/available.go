package ledger

import (
	"context"
	"fmt"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// BalanceSummary is a member's stored balance and the part of it already earmarked for payout.
type BalanceSummary struct {
	AccountCents           int64 `json:"accountCents"`
	PendingWithdrawalCents int64 `json:"pendingWithdrawalCents"`
	AvailableCents         int64 `json:"availableCents"`
}

// SummarizeBalance computes the available balance from the member record and its transactions.
// Pending withdrawals are stored negative, so the pending sum is never positive.
func SummarizeBalance(member *models.Member, txs []models.Transaction) BalanceSummary {
	var pending int64
	for _, tx := range txs {
		if tx.MemberId == member.Id && tx.TransactionType == models.Withdrawal && tx.Status == models.PENDING {
			pending += tx.Amount
		}
	}
	return BalanceSummary{
		AccountCents:           member.Account,
		PendingWithdrawalCents: pending,
		AvailableCents:         member.Account + pending,
	}
}

// CheckDebit rejects a proposed signed delta that would leave the available balance negative.
// Sums that leave the int64 range count as insufficient for a debit and as an overflow for a credit.
func CheckDebit(memberID string, summary BalanceSummary, proposed int64) error {
	available, ok := storage.AddCents(summary.AccountCents, summary.PendingWithdrawalCents)
	if ok {
		available, ok = storage.AddCents(available, proposed)
	}
	if !ok && proposed > 0 {
		return invalid("amount", "would take the account out of range")
	}
	if !ok || available < 0 {
		return &InsufficientBalanceError{
			MemberID:               memberID,
			AccountCents:           summary.AccountCents,
			PendingWithdrawalCents: summary.PendingWithdrawalCents,
			ProposedCents:          proposed,
		}
	}
	return nil
}

func loadBalanceSummary(ctx context.Context, tx storage.Tx, memberID string) (BalanceSummary, error) {
	member, err := tx.GetMember(ctx, memberID)
	if err != nil {
		return BalanceSummary{}, fmt.Errorf("failed to load member: %w", err)
	}
	txs, err := tx.ListTransactionsByMember(ctx, memberID)
	if err != nil {
		return BalanceSummary{}, fmt.Errorf("failed to list member transactions: %w", err)
	}
	return SummarizeBalance(member, txs), nil
}
