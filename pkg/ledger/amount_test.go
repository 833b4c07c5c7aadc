package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinorUnits(t *testing.T) {
	valid := map[string]int64{
		"12":         1200,
		"12.3":       1230,
		"12.34":      1234,
		"$1,234.50":  123450,
		" € 7.05 ":   705,
		"0.01":       1,
		"£ 1 000":    100000,
	}
	for in, want := range valid {
		got, err := ParseMinorUnits(DecimalAmount(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "12.345", "-5", "1e3", ".50", "0", "0.00", "12.", "99999999999999999999", "100000000.01"} {
		_, err := ParseMinorUnits(DecimalAmount(in))
		assert.ErrorIs(t, err, ErrValidation, in)
	}

	got, err := ParseMinorUnits(MinorUnits(2000))
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got)

	got, err = ParseMinorUnits(DecimalAmount("100000000.00"))
	require.NoError(t, err)
	assert.Equal(t, MaxSelfServiceCents, got)

	got, err = ParseMinorUnits(MinorUnits(MaxSelfServiceCents))
	require.NoError(t, err)
	assert.Equal(t, MaxSelfServiceCents, got)

	for _, cents := range []int64{0, -1, MaxSelfServiceCents + 1, math.MaxInt64} {
		_, err := ParseMinorUnits(MinorUnits(cents))
		assert.ErrorIs(t, err, ErrValidation)
	}
}
