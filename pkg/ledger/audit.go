package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// SumMode selects which transactions an account audit sums.
type SumMode string

const (
	// SumCompleted sums effective transactions only: completed and legacy rows without a status.
	SumCompleted SumMode = "completed"
	// SumAll sums every transaction regardless of status.
	SumAll SumMode = "all"
)

// ParseSumMode parses s, defaulting to SumCompleted when empty.
func ParseSumMode(s string) (SumMode, error) {
	switch SumMode(s) {
	case "", SumCompleted:
		return SumCompleted, nil
	case SumAll:
		return SumAll, nil
	}
	return "", invalid("sumMode", "must be completed or all")
}

func (m SumMode) includes(tx *models.Transaction) bool {
	if m == SumAll {
		return true
	}
	return tx.Status.Effective()
}

// AccountMismatch is a member whose stored account disagrees with its ledger sum.
type AccountMismatch struct {
	MemberID         string `json:"memberId"`
	DisplayName      string `json:"displayName"`
	AccountCents     int64  `json:"accountCents"`
	LedgerSumCents   int64  `json:"ledgerSumCents"`
	DeltaCents       int64  `json:"deltaCents"`
	TransactionCount int    `json:"transactionCount"`
}

// OutstandingBalance is a member holding a non-zero account.
type OutstandingBalance struct {
	MemberID     string `json:"memberId"`
	DisplayName  string `json:"displayName"`
	AccountCents int64  `json:"accountCents"`
}

// AccountAudit is the result of reconciling every member account against the ledger.
type AccountAudit struct {
	SumMode             SumMode              `json:"sumMode"`
	MemberCount         int                  `json:"memberCount"`
	Mismatches          []AccountMismatch    `json:"mismatches"`
	OutstandingBalances []OutstandingBalance `json:"outstandingBalances"`
	// UnassignedTransactions counts rows without a member ID. They are not summed.
	UnassignedTransactions int `json:"unassignedTransactions"`
	// OrphanedTransactions counts rows whose member no longer exists.
	OrphanedTransactions int `json:"orphanedTransactions"`
}

// ReconcileAccounts compares each member's account with the sum of its transactions.
// Mismatches are ordered by absolute delta and outstanding balances by absolute balance, largest
// first, with member ID breaking ties.
func ReconcileAccounts(members []models.Member, txs []models.Transaction, mode SumMode) *AccountAudit {
	audit := &AccountAudit{
		SumMode:             mode,
		MemberCount:         len(members),
		Mismatches:          []AccountMismatch{},
		OutstandingBalances: []OutstandingBalance{},
	}

	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.Id] = true
	}
	sums := make(map[string]int64, len(members))
	counts := make(map[string]int, len(members))
	for i := range txs {
		tx := &txs[i]
		switch {
		case tx.MemberId == "":
			audit.UnassignedTransactions++
			continue
		case !known[tx.MemberId]:
			audit.OrphanedTransactions++
			continue
		}
		if mode.includes(tx) {
			sums[tx.MemberId] += tx.Amount
			counts[tx.MemberId]++
		}
	}

	for i := range members {
		m := &members[i]
		if delta := m.Account - sums[m.Id]; delta != 0 {
			audit.Mismatches = append(audit.Mismatches, AccountMismatch{
				MemberID:         m.Id,
				DisplayName:      m.DisplayName(),
				AccountCents:     m.Account,
				LedgerSumCents:   sums[m.Id],
				DeltaCents:       delta,
				TransactionCount: counts[m.Id],
			})
		}
		if m.Account != 0 {
			audit.OutstandingBalances = append(audit.OutstandingBalances, OutstandingBalance{
				MemberID:     m.Id,
				DisplayName:  m.DisplayName(),
				AccountCents: m.Account,
			})
		}
	}

	sort.Slice(audit.Mismatches, func(i, j int) bool {
		a, b := abs(audit.Mismatches[i].DeltaCents), abs(audit.Mismatches[j].DeltaCents)
		if a != b {
			return a > b
		}
		return audit.Mismatches[i].MemberID < audit.Mismatches[j].MemberID
	})
	sort.Slice(audit.OutstandingBalances, func(i, j int) bool {
		a, b := abs(audit.OutstandingBalances[i].AccountCents), abs(audit.OutstandingBalances[j].AccountCents)
		if a != b {
			return a > b
		}
		return audit.OutstandingBalances[i].MemberID < audit.OutstandingBalances[j].MemberID
	})
	return audit
}

// AdminGetMemberAccountAudit reconciles every member account. It never writes.
func (s *Service) AdminGetMemberAccountAudit(ctx context.Context, mode SumMode) (audit *AccountAudit, err error) {
	defer func() { s.metrics.observe("member_account_audit", err) }()

	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if mode != SumCompleted && mode != SumAll {
		return nil, invalid("sumMode", "must be completed or all")
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx, storage.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	audit = ReconcileAccounts(members, txs, mode)
	if mode == SumCompleted {
		s.metrics.SetAuditMismatches("accounts", len(audit.Mismatches))
	}
	return audit, nil
}

// LedgerLine is a transaction in a member ledger audit, flagged when it counts toward the sum.
type LedgerLine struct {
	models.Transaction
	Included bool `json:"included"`
}

// MemberLedgerAudit explains one member's account line by line.
type MemberLedgerAudit struct {
	Member           models.Member `json:"member"`
	SumMode          SumMode       `json:"sumMode"`
	AccountCents     int64         `json:"accountCents"`
	IncludedSumCents int64         `json:"includedSumCents"`
	DeltaCents       int64         `json:"deltaCents"`
	Transactions     []LedgerLine  `json:"transactions"`
}

// AdminGetMemberLedgerForAudit lists a member's transactions with the sum the account should match.
func (s *Service) AdminGetMemberLedgerForAudit(ctx context.Context, memberID string, mode SumMode) (*MemberLedgerAudit, error) {
	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if mode != SumCompleted && mode != SumAll {
		return nil, invalid("sumMode", "must be completed or all")
	}

	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx, storage.TransactionFilter{MemberID: memberID})
	if err != nil {
		return nil, fmt.Errorf("failed to list member transactions: %w", err)
	}

	audit := &MemberLedgerAudit{
		Member:       *member,
		SumMode:      mode,
		AccountCents: member.Account,
		Transactions: make([]LedgerLine, 0, len(txs)),
	}
	for i := range txs {
		included := mode.includes(&txs[i])
		if included {
			audit.IncludedSumCents += txs[i].Amount
		}
		audit.Transactions = append(audit.Transactions, LedgerLine{Transaction: txs[i], Included: included})
	}
	audit.DeltaCents = audit.AccountCents - audit.IncludedSumCents
	return audit, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
