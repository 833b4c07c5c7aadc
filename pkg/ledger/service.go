// Package ledger records monetary events against member accounts and keeps each account
// consistent with the transactions that produced it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
	"github.com/google/uuid"
)

// Authorizer is the capability check every operation starts with.
type Authorizer interface {
	Caller(ctx context.Context) (access.Caller, error)
	RequireAdmin(ctx context.Context) (access.Caller, error)
	RequireModerator(ctx context.Context) (access.Caller, error)
	RequireOwner(ctx context.Context, memberID string) (access.Caller, error)
}

// Service implements the ledger operations on top of a storage backend.
type Service struct {
	store   storage.Storage
	authz   Authorizer
	clock   Clock
	metrics *Metrics
	logger  *slog.Logger
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source for every timestamp the service writes.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger for operational events such as merges and unreversed deletes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithIDGenerator overrides how transaction IDs are generated.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a new Service.
func NewService(store storage.Storage, authz Authorizer, opts ...Option) *Service {
	s := &Service{
		store:  store,
		authz:  authz,
		clock:  SystemClock,
		logger: slog.Default(),
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTransactionInput is an admin request to record a transaction.
// Amount is in minor units and is sign-normalized for the transaction type.
type CreateTransactionInput struct {
	MemberID        string
	SeasonID        string
	TransactionType models.TransactionType
	Amount          float64
	Status          models.TransactionStatus
	ProcessedAt     *time.Time
	Description     string
}

// CreateTransaction records a transaction. A completed transaction is applied to the member's
// account in the same unit of work.
func (s *Service) CreateTransaction(ctx context.Context, in CreateTransactionInput) (txn *models.Transaction, err error) {
	defer func() { s.metrics.observe("create_transaction", err) }()

	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.MemberID) == "" {
		return nil, invalid("memberId", "is required")
	}
	if strings.TrimSpace(in.SeasonID) == "" {
		return nil, invalid("seasonId", "is required")
	}
	amount, err := SignedAmount(in.TransactionType, in.Amount)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.COMPLETED
	}
	if !status.Valid() {
		return nil, invalid("status", "must be one of pending, completed, failed, cancelled")
	}

	now := s.clock.Now()
	txn = &models.Transaction{
		Id:              s.newID(),
		MemberId:        in.MemberID,
		SeasonId:        in.SeasonID,
		Amount:          amount,
		TransactionType: in.TransactionType,
		Status:          status,
		Description:     in.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	switch {
	case in.ProcessedAt != nil:
		processedAt := *in.ProcessedAt
		txn.ProcessedAt = &processedAt
	case status == models.COMPLETED:
		txn.ProcessedAt = &now
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if _, err := tx.GetMember(ctx, in.MemberID); err != nil {
			return fmt.Errorf("failed to load member: %w", err)
		}
		if err := tx.PutTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		if status.Effective() {
			if err := tx.AdjustMemberAccount(ctx, in.MemberID, amount, now); err != nil {
				return fmt.Errorf("failed to apply transaction to member account: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if status.Effective() {
		s.metrics.balanceMutation(amount)
	}

	s.logger.InfoContext(ctx, "transaction created",
		"transaction_id", txn.Id,
		"member_id", txn.MemberId,
		"type", txn.TransactionType,
		"amount", txn.Amount,
		"status", txn.Status,
	)
	return txn, nil
}

// UpdateTransaction applies an admin patch and moves the resulting balance deltas in the same
// unit of work. Every member the update touches must exist before anything is written.
func (s *Service) UpdateTransaction(ctx context.Context, id string, patch UpdatePatch) (updated *models.Transaction, err error) {
	defer func() { s.metrics.observe("update_transaction", err) }()

	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var plan UpdatePlan
	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		existing, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		plan, err = PlanUpdate(*existing, patch, now)
		if err != nil {
			return err
		}
		for _, memberID := range plan.Members() {
			if _, err := tx.GetMember(ctx, memberID); err != nil {
				return fmt.Errorf("failed to load member: %w", err)
			}
		}

		next := plan.Next
		if err := tx.UpdateTransaction(ctx, &next); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		plan.Next = next
		for _, d := range plan.Deltas {
			if err := tx.AdjustMemberAccount(ctx, d.MemberID, d.Delta, now); err != nil {
				return fmt.Errorf("failed to adjust member account: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, d := range plan.Deltas {
		s.metrics.balanceMutation(d.Delta)
	}

	s.logger.InfoContext(ctx, "transaction updated",
		"transaction_id", plan.Next.Id,
		"member_id", plan.Next.MemberId,
		"status", plan.Next.Status,
		"prev_effective", plan.PrevEffective,
		"next_effective", plan.NextEffective,
	)
	return &plan.Next, nil
}

// DeleteTransaction hard-deletes a transaction. The member's account is not reversed, so deleting
// an effective transaction leaves drift for the account audit to report.
// It returns nil without error when the transaction does not exist.
func (s *Service) DeleteTransaction(ctx context.Context, id string) (deleted *models.Transaction, err error) {
	defer func() { s.metrics.observe("delete_transaction", err) }()

	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		existing, err := tx.GetTransaction(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		if err := tx.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted != nil && deleted.MemberId != "" && deleted.Status.Effective() {
		s.logger.WarnContext(ctx, "deleted an effective transaction without reversing its balance",
			"transaction_id", deleted.Id,
			"member_id", deleted.MemberId,
			"unreversed_amount", deleted.Amount,
		)
	}
	return deleted, nil
}

// GetTransaction returns a transaction to its owner or to an admin or moderator.
func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if _, err := s.authz.Caller(ctx); err != nil {
		return nil, err
	}
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if _, err := s.authz.RequireOwner(ctx, txn.MemberId); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns every transaction matching filter.
func (s *Service) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]models.Transaction, error) {
	if err := s.authorizeFilter(ctx, filter); err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// ListTransactionsPage returns one page of transactions matching filter.
func (s *Service) ListTransactionsPage(ctx context.Context, filter storage.TransactionFilter, page storage.Page) (*storage.TransactionPage, error) {
	if err := s.authorizeFilter(ctx, filter); err != nil {
		return nil, err
	}
	switch {
	case page.Limit < 0 || page.Limit > maxPageLimit:
		return nil, invalid("limit", fmt.Sprintf("must be between 1 and %d", maxPageLimit))
	case page.Limit == 0:
		page.Limit = defaultPageLimit
	}
	result, err := s.store.ListTransactionsPage(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions page: %w", err)
	}
	return result, nil
}

// authorizeFilter lets members list their own transactions and requires a moderator otherwise.
func (s *Service) authorizeFilter(ctx context.Context, filter storage.TransactionFilter) error {
	if filter.TransactionType != "" && !filter.TransactionType.Valid() {
		return invalid("transactionType", fmt.Sprintf("%q is not supported", filter.TransactionType))
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return invalid("status", "must be one of pending, completed, failed, cancelled")
	}
	caller, err := s.authz.Caller(ctx)
	if err != nil {
		return err
	}
	if filter.MemberID != "" && filter.MemberID == caller.MemberID {
		return nil
	}
	_, err = s.authz.RequireModerator(ctx)
	return err
}
