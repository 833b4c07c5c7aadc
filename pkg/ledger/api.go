package ledger

import (
	"context"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// TransactionService is the admin and read surface over individual transactions.
type TransactionService interface {
	CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, patch UpdatePatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]models.Transaction, error)
	ListTransactionsPage(ctx context.Context, filter storage.TransactionFilter, page storage.Page) (*storage.TransactionPage, error)
}

// AccountService is the member self-service surface.
type AccountService interface {
	GetMyBalanceSummary(ctx context.Context) (*BalanceSummary, error)
	CreateDonation(ctx context.Context, seasonID string, donationType models.TransactionType, amount AmountInput) (*models.Transaction, error)
	CreateWithdrawalRequest(ctx context.Context, seasonID, payoutAddress string, amount AmountInput) (*models.Transaction, error)
	CreateWithdrawalAndDonations(ctx context.Context, in WithdrawalAndDonationsInput) (*SubmissionResult, error)
}

// AdminService is the audit and maintenance surface.
type AdminService interface {
	AdminGetMemberAccountAudit(ctx context.Context, mode SumMode) (*AccountAudit, error)
	AdminGetMemberLedgerForAudit(ctx context.Context, memberID string, mode SumMode) (*MemberLedgerAudit, error)
	AdminGetTournamentWinningsAudit(ctx context.Context, seasonID string) (*WinningsAudit, error)
	AdminMergeMembers(ctx context.Context, sourceID, targetID string, overwriteConflict bool) (*MergeResult, error)
	AdminBackfillTransactionMemberIDs(ctx context.Context, limit int32) (*BackfillResult, error)
}

// Make sure we conform to the interfaces
var (
	_ TransactionService = (*Service)(nil)
	_ AccountService     = (*Service)(nil)
	_ AdminService       = (*Service)(nil)
)
