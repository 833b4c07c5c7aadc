package mapping

import (
	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
// Legacy rows without a status are reported as completed.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	status := tx.Status
	if status == "" {
		status = models.COMPLETED
	}
	return &api.Transaction{
		Id:              tx.Id,
		MemberId:        optional(tx.MemberId),
		SeasonId:        tx.SeasonId,
		Amount:          tx.Amount,
		TransactionType: string(tx.TransactionType),
		Status:          string(status),
		ProcessedAt:     tx.ProcessedAt,
		PayoutAddress:   optional(tx.PayoutAddress),
		Description:     optional(tx.Description),
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

// ToApiTransactions converts a slice, never returning nil.
func ToApiTransactions(txs []models.Transaction) []api.Transaction {
	out := make([]api.Transaction, len(txs))
	for i := range txs {
		out[i] = *ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiTransactionPage converts a storage page.
func ToApiTransactionPage(page *storage.TransactionPage) *api.TransactionPage {
	return &api.TransactionPage{
		Transactions: ToApiTransactions(page.Transactions),
		NextCursor:   optional(page.NextCursor),
	}
}

// ToDomainNewTransaction converts an API NewTransaction into the ledger create input.
func ToDomainNewTransaction(newTx *api.NewTransaction) ledger.CreateTransactionInput {
	return ledger.CreateTransactionInput{
		MemberID:        newTx.MemberId,
		SeasonID:        newTx.SeasonId,
		TransactionType: models.TransactionType(newTx.TransactionType),
		Amount:          newTx.Amount,
		Status:          models.TransactionStatus(deref(newTx.Status)),
		ProcessedAt:     newTx.ProcessedAt,
		Description:     deref(newTx.Description),
	}
}

// ToDomainPatch converts an API TransactionPatch into a typed ledger patch.
func ToDomainPatch(patch *api.TransactionPatch) ledger.UpdatePatch {
	out := ledger.UpdatePatch{
		MemberID:    patch.MemberId,
		Amount:      patch.Amount,
		ProcessedAt: patch.ProcessedAt,
	}
	if patch.TransactionType != nil {
		t := models.TransactionType(*patch.TransactionType)
		out.TransactionType = &t
	}
	if patch.Status != nil {
		s := models.TransactionStatus(*patch.Status)
		out.Status = &s
	}
	return out
}

// ToDomainFilter converts listing parameters into a storage filter.
func ToDomainFilter(params api.ListTransactionsParams) storage.TransactionFilter {
	return storage.TransactionFilter{
		MemberID:        deref(params.MemberId),
		SeasonID:        deref(params.SeasonId),
		TransactionType: models.TransactionType(deref(params.TransactionType)),
		Status:          models.TransactionStatus(deref(params.Status)),
	}
}

// ToDomainPage converts paging parameters.
func ToDomainPage(params api.ListTransactionsPageParams) storage.Page {
	page := storage.Page{Cursor: deref(params.Cursor)}
	if params.Limit != nil {
		page.Limit = *params.Limit
	}
	return page
}

// ToDomainAmount converts a self-service amount.
func ToDomainAmount(m api.Money) ledger.AmountInput {
	return ledger.AmountInput{MinorUnits: m.Cents, Decimal: m.Decimal}
}

func toDomainAmountPtr(m *api.Money) *ledger.AmountInput {
	if m == nil {
		return nil
	}
	amount := ToDomainAmount(*m)
	return &amount
}

// ToDomainPayout converts a combined payout request.
func ToDomainPayout(p *api.NewPayout) ledger.WithdrawalAndDonationsInput {
	in := ledger.WithdrawalAndDonationsInput{
		SeasonID:        p.SeasonId,
		Withdrawal:      toDomainAmountPtr(p.Withdrawal),
		LeagueDonation:  toDomainAmountPtr(p.LeagueDonation),
		CharityDonation: toDomainAmountPtr(p.CharityDonation),
	}
	if p.PayoutAddress != nil {
		in.PayoutAddress = string(*p.PayoutAddress)
	}
	return in
}

// ToApiBalanceSummary converts a ledger balance summary.
func ToApiBalanceSummary(s *ledger.BalanceSummary) *api.BalanceSummary {
	return &api.BalanceSummary{
		AccountCents:           s.AccountCents,
		PendingWithdrawalCents: s.PendingWithdrawalCents,
		AvailableCents:         s.AvailableCents,
	}
}

// ToApiPayoutResult converts the result of a combined payout.
func ToApiPayoutResult(r *ledger.SubmissionResult) *api.PayoutResult {
	return &api.PayoutResult{
		Created:        ToApiTransactions(r.Created),
		BalanceSummary: *ToApiBalanceSummary(&r.BalanceSummary),
	}
}

// ToApiAccountAudit converts an account audit.
func ToApiAccountAudit(a *ledger.AccountAudit) *api.AccountAudit {
	out := &api.AccountAudit{
		SumMode:                string(a.SumMode),
		MemberCount:            a.MemberCount,
		Mismatches:             make([]api.AccountMismatch, len(a.Mismatches)),
		OutstandingBalances:    make([]api.OutstandingBalance, len(a.OutstandingBalances)),
		UnassignedTransactions: a.UnassignedTransactions,
		OrphanedTransactions:   a.OrphanedTransactions,
	}
	for i, m := range a.Mismatches {
		out.Mismatches[i] = api.AccountMismatch{
			MemberId:         m.MemberID,
			DisplayName:      m.DisplayName,
			AccountCents:     m.AccountCents,
			LedgerSumCents:   m.LedgerSumCents,
			DeltaCents:       m.DeltaCents,
			TransactionCount: m.TransactionCount,
		}
	}
	for i, b := range a.OutstandingBalances {
		out.OutstandingBalances[i] = api.OutstandingBalance{
			MemberId:     b.MemberID,
			DisplayName:  b.DisplayName,
			AccountCents: b.AccountCents,
		}
	}
	return out
}

// ToApiMemberLedgerAudit converts a single member's ledger audit.
func ToApiMemberLedgerAudit(a *ledger.MemberLedgerAudit) *api.MemberLedgerAudit {
	out := &api.MemberLedgerAudit{
		Member: api.Member{
			Id:          a.Member.Id,
			DisplayName: a.Member.DisplayName(),
			Email:       a.Member.Email,
			Role:        string(a.Member.Role),
			Account:     a.Member.Account,
		},
		SumMode:          string(a.SumMode),
		AccountCents:     a.AccountCents,
		IncludedSumCents: a.IncludedSumCents,
		DeltaCents:       a.DeltaCents,
		Transactions:     make([]api.LedgerLine, len(a.Transactions)),
	}
	for i := range a.Transactions {
		out.Transactions[i] = api.LedgerLine{
			Transaction: *ToApiTransaction(&a.Transactions[i].Transaction),
			Included:    a.Transactions[i].Included,
		}
	}
	return out
}

// ToApiWinningsAudit converts a season winnings audit.
func ToApiWinningsAudit(a *ledger.WinningsAudit) *api.WinningsAudit {
	out := &api.WinningsAudit{
		SeasonId:    a.SeasonID,
		Mismatches:  make([]api.WinningsMismatch, len(a.Mismatches)),
		Tournaments: make([]api.TournamentSummary, len(a.Tournaments)),
	}
	for i, m := range a.Mismatches {
		tournaments := make([]api.TournamentEarnings, len(m.Tournaments))
		for j, t := range m.Tournaments {
			tournaments[j] = api.TournamentEarnings{
				TournamentId:   t.TournamentID,
				TournamentName: t.TournamentName,
				EarningsCents:  t.EarningsCents,
			}
		}
		out.Mismatches[i] = api.WinningsMismatch{
			MemberId:      m.MemberID,
			DisplayName:   m.DisplayName,
			ExpectedCents: m.ExpectedCents,
			RecordedCents: m.RecordedCents,
			DeltaCents:    m.DeltaCents,
			Tournaments:   tournaments,
			Transactions:  ToApiTransactions(m.Transactions),
		}
	}
	for i, t := range a.Tournaments {
		out.Tournaments[i] = api.TournamentSummary{
			Id:            t.ID,
			Name:          t.Name,
			Status:        string(t.Status),
			TeamCount:     t.TeamCount,
			EarningsCents: t.EarningsCents,
		}
	}
	return out
}

// ToApiMergeResult converts a merge result.
func ToApiMergeResult(r *ledger.MergeResult) *api.MergeMembersResult {
	return &api.MergeMembersResult{
		SourceId:          r.SourceID,
		TargetId:          r.TargetID,
		TransactionsMoved: r.TransactionsMoved,
		TourCardsMoved:    r.TourCardsMoved,
		TourCardsReplaced: r.TourCardsReplaced,
		AccountMovedCents: r.AccountMovedCents,
	}
}

// ToApiBackfillResult converts a backfill result.
func ToApiBackfillResult(r *ledger.BackfillResult) *api.BackfillResult {
	return &api.BackfillResult{Scanned: r.Scanned, Updated: r.Updated, Unmatched: r.Unmatched}
}
