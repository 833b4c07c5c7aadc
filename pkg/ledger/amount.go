package ledger

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// AmountInput is a self-service amount: either whole minor units or a major-currency decimal
// string such as "$1,234.50". Exactly one of the fields is expected to be set.
type AmountInput struct {
	MinorUnits *int64
	Decimal    string
}

// MinorUnits builds an AmountInput from whole cents.
func MinorUnits(cents int64) AmountInput {
	return AmountInput{MinorUnits: &cents}
}

// DecimalAmount builds an AmountInput from a major-currency string.
func DecimalAmount(s string) AmountInput {
	return AmountInput{Decimal: s}
}

// IsSet reports whether any form of the amount was supplied.
func (a AmountInput) IsSet() bool {
	return a.MinorUnits != nil || strings.TrimSpace(a.Decimal) != ""
}

var decimalAmountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// MaxSelfServiceCents caps a single self-service amount at one hundred million in major units.
const MaxSelfServiceCents int64 = 10_000_000_000

var (
	hundred        = decimal.NewFromInt(100)
	maxSelfService = decimal.NewFromInt(MaxSelfServiceCents)
)

// ParseMinorUnits converts a self-service amount into a positive number of cents.
func ParseMinorUnits(in AmountInput) (int64, error) {
	if in.MinorUnits != nil {
		if *in.MinorUnits <= 0 {
			return 0, invalid("amount", "must be a positive number of cents")
		}
		if *in.MinorUnits > MaxSelfServiceCents {
			return 0, invalid("amount", "is out of range")
		}
		return *in.MinorUnits, nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, in.Decimal)
	if cleaned == "" {
		return 0, invalid("amount", "is required")
	}
	if !decimalAmountPattern.MatchString(cleaned) {
		return 0, invalid("amount", "must look like 12 or 12.34")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, invalid("amount", err.Error())
	}
	cents := value.Mul(hundred)
	if cents.GreaterThan(maxSelfService) {
		return 0, invalid("amount", "is out of range")
	}
	if !cents.IsPositive() {
		return 0, invalid("amount", "must be greater than zero")
	}
	return cents.IntPart(), nil
}
