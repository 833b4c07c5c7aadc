package ledger

import (
	"errors"
	"fmt"

	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// Sentinel errors, usable with errors.Is.
var (
	// ErrValidation is returned for malformed input. Nothing has been written.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedTransactionType is returned for a transaction type the amount policy does not know.
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")

	// ErrInsufficientBalance is returned when a debit would drive the available balance below zero.
	ErrInsufficientBalance = errors.New("insufficient available balance")

	// ErrMergeConflict is returned when both members of a merge hold a tour card for the same season.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrMergeIncomplete is returned when records still reference the source member after a merge.
	ErrMergeIncomplete = errors.New("merge left records on the source member")

	// ErrNotFound is the storage not-found sentinel, re-exported for callers of the ledger.
	ErrNotFound = storage.ErrNotFound
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientBalanceError provides details about a rejected debit.
type InsufficientBalanceError struct {
	MemberID               string
	AccountCents           int64
	PendingWithdrawalCents int64
	ProposedCents          int64
}

// AvailableCents is the balance the proposed debit was checked against.
func (e *InsufficientBalanceError) AvailableCents() int64 {
	return e.AccountCents + e.PendingWithdrawalCents
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("member %s has %d cents available, cannot apply %d", e.MemberID, e.AvailableCents(), e.ProposedCents)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// ErrorKind classifies an error returned by the ledger.
type ErrorKind string

const (
	KindNone                ErrorKind = "ok"
	KindValidation          ErrorKind = "validation"
	KindUnauthenticated     ErrorKind = "unauthenticated"
	KindForbidden           ErrorKind = "forbidden"
	KindNotFound            ErrorKind = "not_found"
	KindConflict            ErrorKind = "conflict"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindInternal            ErrorKind = "internal"
)

// Kind classifies err for transport mapping and metrics.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation), errors.Is(err, storage.ErrAccountOverflow):
		return KindValidation
	case errors.Is(err, access.ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, access.ErrForbidden):
		return KindForbidden
	case errors.Is(err, storage.ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, storage.ErrConcurrentModification),
		errors.Is(err, storage.ErrUnitTooLarge),
		errors.Is(err, ErrMergeConflict),
		errors.Is(err, ErrMergeIncomplete):
		return KindConflict
	}
	return KindInternal
}
