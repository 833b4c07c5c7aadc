package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced member or transaction does not exist.
var ErrNotFound = errors.New("not found")

// ErrConcurrentModification is returned when a unit of work observed state that changed before it committed.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// ErrUnitTooLarge is returned when a unit of work stages more writes than the backend can commit atomically.
var ErrUnitTooLarge = errors.New("unit of work exceeds the atomic write limit")

// NotFoundError names the entity that could not be found.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// MemberNotFound builds a NotFoundError for a member.
func MemberNotFound(id string) error {
	return &NotFoundError{Entity: "member", ID: id}
}

// TransactionNotFound builds a NotFoundError for a transaction.
func TransactionNotFound(id string) error {
	return &NotFoundError{Entity: "transaction", ID: id}
}

// ErrAccountOverflow is returned when a balance change would take a member account out of the int64 range.
var ErrAccountOverflow = errors.New("member account out of range")
