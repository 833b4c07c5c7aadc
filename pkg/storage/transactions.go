package storage

import (
	"context"

	"github.com/chris/golf-league-ledger/pkg/models"
)

// TransactionFilter narrows a transaction listing. Empty fields are ignored.
type TransactionFilter struct {
	MemberID        string
	SeasonID        string
	TransactionType models.TransactionType
	Status          models.TransactionStatus
}

// Matches reports whether tx satisfies every non-empty field of the filter.
// A completed status filter also matches legacy rows without a status.
func (f TransactionFilter) Matches(tx *models.Transaction) bool {
	if f.MemberID != "" && tx.MemberId != f.MemberID {
		return false
	}
	if f.SeasonID != "" && tx.SeasonId != f.SeasonID {
		return false
	}
	if f.TransactionType != "" && tx.TransactionType != f.TransactionType {
		return false
	}
	if f.Status != "" {
		if f.Status == models.COMPLETED {
			return tx.Status.Effective()
		}
		return tx.Status == f.Status
	}
	return true
}

// Page requests one page of results. Cursor is opaque and comes from a previous TransactionPage.
type Page struct {
	Limit  int32
	Cursor string
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Transactions []models.Transaction
	NextCursor   string
}

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// ListTransactions retrieves every transaction matching the filter.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)

	// ListTransactionsPage retrieves one page of transactions matching the filter.
	ListTransactionsPage(ctx context.Context, filter TransactionFilter, page Page) (*TransactionPage, error)

	// ListUnassignedTransactions retrieves up to limit legacy transactions that carry an
	// external user reference but no member ID.
	ListUnassignedTransactions(ctx context.Context, limit int32) ([]models.Transaction, error)
}
