package ledger

import (
	"fmt"
	"math"

	"github.com/chris/golf-league-ledger/pkg/models"
)

// Direction is how a transaction type moves money relative to the member.
type Direction int

const (
	// Debit kinds are stored negative.
	Debit Direction = iota + 1
	// Credit kinds are stored positive.
	Credit
	// FreeSigned kinds keep the sign they were given.
	FreeSigned
)

// Classify returns the direction of t. Every TransactionType constant must have a case here.
func Classify(t models.TransactionType) (Direction, error) {
	switch t {
	case models.TourCardFee, models.Withdrawal, models.LeagueDonation, models.CharityDonation:
		return Debit, nil
	case models.TournamentWinnings, models.Deposit, models.Refund, models.Payment:
		return Credit, nil
	case models.Adjustment:
		return FreeSigned, nil
	}
	return 0, &ValidationError{
		Field:  "transactionType",
		Reason: fmt.Sprintf("%q is not supported", t),
		Err:    ErrUnsupportedTransactionType,
	}
}

// SignedAmount normalizes a raw amount in minor units for transaction type t.
// The value is truncated toward zero; debits become -|m|, credits +|m| and adjustments keep their sign.
// Applying it to its own output for the same type returns the same value.
func SignedAmount(t models.TransactionType, raw float64) (int64, error) {
	dir, err := Classify(t)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, invalid("amount", "must be a finite number")
	}
	truncated := math.Trunc(raw)
	if truncated == 0 {
		return 0, invalid("amount", "must be a non-zero whole number of cents")
	}
	if truncated >= math.MaxInt64 || truncated <= math.MinInt64 {
		return 0, invalid("amount", "is out of range")
	}
	return applyDirection(dir, int64(truncated)), nil
}

// signMinorUnits is SignedAmount for a value that is already a whole number of minor units.
func signMinorUnits(t models.TransactionType, m int64) (int64, error) {
	dir, err := Classify(t)
	if err != nil {
		return 0, err
	}
	if m == 0 {
		return 0, invalid("amount", "must be a non-zero whole number of cents")
	}
	if m == math.MinInt64 {
		return 0, invalid("amount", "is out of range")
	}
	return applyDirection(dir, m), nil
}

func applyDirection(dir Direction, m int64) int64 {
	switch dir {
	case Debit:
		if m > 0 {
			return -m
		}
	case Credit:
		if m < 0 {
			return -m
		}
	}
	return m
}
