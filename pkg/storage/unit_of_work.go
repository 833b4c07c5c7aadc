package storage

import (
	"context"
	"time"

	"github.com/chris/golf-league-ledger/pkg/models"
)

// Tx is a unit of work. Reads observe committed state plus the writes already staged in the
// same unit; writes become visible to other callers only when the unit commits.
//
// AdjustMemberAccount is the only operation that changes a member's balance.
type Tx interface {
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)
	ListTransactionsByMember(ctx context.Context, memberID string) ([]models.Transaction, error)
	ListTourCardsByMember(ctx context.Context, memberID string) ([]models.TourCard, error)

	// PutTransaction inserts a new transaction. It fails if the ID already exists.
	PutTransaction(ctx context.Context, tx *models.Transaction) error

	// UpdateTransaction replaces the mutable fields of a transaction read in this unit.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction removes a transaction. The member balance is not touched.
	DeleteTransaction(ctx context.Context, txID string) error

	// AdjustMemberAccount adds delta to the member's account and stamps UpdatedAt.
	AdjustMemberAccount(ctx context.Context, memberID string, delta int64, at time.Time) error

	// LockMember serializes this unit against any other unit touching the same member
	// without changing the member's account.
	LockMember(ctx context.Context, memberID string) error

	// DeleteMember removes a member record.
	DeleteMember(ctx context.Context, memberID string) error

	UpdateTourCard(ctx context.Context, card *models.TourCard) error
	DeleteTourCard(ctx context.Context, cardID string) error
}

// Transactor runs units of work.
type Transactor interface {
	// WithTx executes fn within a unit of work.
	// If fn returns an error nothing is written; otherwise every staged write commits atomically.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
