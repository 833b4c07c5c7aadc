package ledger

import (
	"context"
	"math"
	"testing"

	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var self = access.Caller{MemberID: "a", Role: models.RoleRegular}

func pendingWithdrawal(id, memberID string, cents int64) models.Transaction {
	return models.Transaction{
		Id: id, MemberId: memberID, SeasonId: "s1", Amount: -cents,
		TransactionType: models.Withdrawal, Status: models.PENDING, PayoutAddress: "pay@example.com",
	}
}

func TestAvailableBalance(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, self, member("a", 0))
	store.PutTransaction(pendingWithdrawal("w1", "a", 2000))

	summary, err := svc.GetMyBalanceSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, BalanceSummary{AccountCents: 0, PendingWithdrawalCents: -2000, AvailableCents: -2000}, *summary)

	_, err = svc.CreateDonation(ctx, "s1", models.LeagueDonation, MinorUnits(2001))
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(-2000), insufficient.AvailableCents())
	assert.Equal(t, int64(-2001), insufficient.ProposedCents)

	_, err = svc.CreateDonation(ctx, "s1", models.CharityDonation, MinorUnits(2000))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, KindInsufficientBalance, Kind(err))

	_, err = svc.CreateDonation(ctx, "s1", models.CharityDonation, MinorUnits(0))
	assert.ErrorIs(t, err, ErrValidation)

	txs, err := store.ListTransactions(ctx, storage.TransactionFilter{MemberID: "a"})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, int64(0), accountOf(t, store, "a"))
}

func TestCreateDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 5000))

		txn, err := svc.CreateDonation(ctx, "s1", models.CharityDonation, DecimalAmount("$12.50"))
		require.NoError(t, err)
		assert.Equal(t, int64(-1250), txn.Amount)
		assert.Equal(t, models.COMPLETED, txn.Status)
		assert.Equal(t, "Charity donation", txn.Description)
		assert.Equal(t, "a", txn.MemberId)
		assert.Equal(t, int64(3750), accountOf(t, store, "a"))
	})

	t.Run("Exactly Available", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 2000))
		_, err := svc.CreateDonation(ctx, "s1", models.LeagueDonation, MinorUnits(2000))
		require.NoError(t, err)
		assert.Equal(t, int64(0), accountOf(t, store, "a"))
	})

	t.Run("Wrong Type", func(t *testing.T) {
		svc, _ := newTestService(t, self, member("a", 2000))
		_, err := svc.CreateDonation(ctx, "s1", models.Deposit, MinorUnits(100))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Missing Season", func(t *testing.T) {
		svc, _ := newTestService(t, self, member("a", 2000))
		_, err := svc.CreateDonation(ctx, " ", models.LeagueDonation, MinorUnits(100))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Unregistered Caller", func(t *testing.T) {
		svc, _ := newTestService(t, self)
		_, err := svc.CreateDonation(ctx, "s1", models.LeagueDonation, MinorUnits(100))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateWithdrawalRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 3000))

		txn, err := svc.CreateWithdrawalRequest(ctx, "s1", " pay@example.com ", DecimalAmount("10"))
		require.NoError(t, err)
		assert.Equal(t, int64(-1000), txn.Amount)
		assert.Equal(t, models.PENDING, txn.Status)
		assert.Equal(t, "pay@example.com", txn.PayoutAddress)
		assert.Nil(t, txn.ProcessedAt)
		assert.Equal(t, int64(3000), accountOf(t, store, "a"))

		summary, err := svc.GetMyBalanceSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), summary.AvailableCents)
	})

	t.Run("Pending Withdrawals Count", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 3000))
		store.PutTransaction(pendingWithdrawal("w1", "a", 2500))

		_, err := svc.CreateWithdrawalRequest(ctx, "s1", "pay@example.com", MinorUnits(600))
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("Payout Address Required", func(t *testing.T) {
		svc, _ := newTestService(t, self, member("a", 3000))
		_, err := svc.CreateWithdrawalRequest(ctx, "s1", "", MinorUnits(600))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "payoutAddress", verr.Field)
	})
}

func TestCreateWithdrawalAndDonations(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 5000))

		result, err := svc.CreateWithdrawalAndDonations(ctx, WithdrawalAndDonationsInput{
			SeasonID:        "s1",
			PayoutAddress:   "pay@example.com",
			Withdrawal:      ptr(MinorUnits(1000)),
			LeagueDonation:  ptr(DecimalAmount("5")),
			CharityDonation: ptr(DecimalAmount("$2.50")),
		})
		require.NoError(t, err)
		require.Len(t, result.Created, 3)
		assert.Equal(t, models.Withdrawal, result.Created[0].TransactionType)
		assert.Equal(t, models.LeagueDonation, result.Created[1].TransactionType)
		assert.Equal(t, models.CharityDonation, result.Created[2].TransactionType)
		assert.Equal(t, BalanceSummary{AccountCents: 4250, PendingWithdrawalCents: -1000, AvailableCents: 3250}, result.BalanceSummary)
		assert.Equal(t, int64(4250), accountOf(t, store, "a"))
	})

	t.Run("Checked Jointly", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 1000))

		_, err := svc.CreateWithdrawalAndDonations(ctx, WithdrawalAndDonationsInput{
			SeasonID:       "s1",
			PayoutAddress:  "pay@example.com",
			Withdrawal:     ptr(MinorUnits(800)),
			LeagueDonation: ptr(MinorUnits(300)),
		})
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{MemberID: "a"})
		require.NoError(t, err)
		assert.Empty(t, txs)
		assert.Equal(t, int64(1000), accountOf(t, store, "a"))
	})

	t.Run("Unset Parts Are Skipped", func(t *testing.T) {
		svc, _ := newTestService(t, self, member("a", 1000))

		result, err := svc.CreateWithdrawalAndDonations(ctx, WithdrawalAndDonationsInput{
			SeasonID:        "s1",
			Withdrawal:      &AmountInput{},
			CharityDonation: ptr(MinorUnits(100)),
		})
		require.NoError(t, err)
		require.Len(t, result.Created, 1)
		assert.Equal(t, models.CharityDonation, result.Created[0].TransactionType)
	})

	t.Run("Nothing Requested", func(t *testing.T) {
		svc, _ := newTestService(t, self, member("a", 1000))
		_, err := svc.CreateWithdrawalAndDonations(ctx, WithdrawalAndDonationsInput{SeasonID: "s1"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Bad Part Rejects Everything", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 1000))
		_, err := svc.CreateWithdrawalAndDonations(ctx, WithdrawalAndDonationsInput{
			SeasonID:        "s1",
			LeagueDonation:  ptr(MinorUnits(100)),
			CharityDonation: ptr(DecimalAmount("1.234")),
		})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, int64(1000), accountOf(t, store, "a"))
	})

	t.Run("Huge Parts Cannot Wrap Around", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 0))

		_, err := svc.CreateWithdrawalAndDonations(ctx, WithdrawalAndDonationsInput{
			SeasonID:       "s1",
			PayoutAddress:  "pay@example.com",
			Withdrawal:     ptr(MinorUnits(math.MaxInt64)),
			LeagueDonation: ptr(MinorUnits(math.MaxInt64)),
		})
		assert.ErrorIs(t, err, ErrValidation)

		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{MemberID: "a"})
		require.NoError(t, err)
		assert.Empty(t, txs)
		assert.Equal(t, int64(0), accountOf(t, store, "a"))
	})

	t.Run("Largest Parts Still Checked Against Balance", func(t *testing.T) {
		svc, store := newTestService(t, self, member("a", 0))

		_, err := svc.CreateWithdrawalAndDonations(ctx, WithdrawalAndDonationsInput{
			SeasonID:       "s1",
			PayoutAddress:  "pay@example.com",
			Withdrawal:     ptr(MinorUnits(MaxSelfServiceCents)),
			LeagueDonation: ptr(MinorUnits(MaxSelfServiceCents)),
		})
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, int64(0), accountOf(t, store, "a"))
	})
}

func TestCheckDebit(t *testing.T) {
	t.Run("Within Range", func(t *testing.T) {
		assert.NoError(t, CheckDebit("a", BalanceSummary{AccountCents: 500, PendingWithdrawalCents: -200}, -300))
		assert.ErrorIs(t, CheckDebit("a", BalanceSummary{AccountCents: 500, PendingWithdrawalCents: -200}, -301), ErrInsufficientBalance)
	})

	t.Run("Debit Below Range", func(t *testing.T) {
		summary := BalanceSummary{AccountCents: math.MinInt64 + 10, PendingWithdrawalCents: -5}
		err := CheckDebit("a", summary, -100)
		var insufficient *InsufficientBalanceError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(-100), insufficient.ProposedCents)
	})

	t.Run("Debit Wrapping Past Zero", func(t *testing.T) {
		err := CheckDebit("a", BalanceSummary{}, math.MinInt64)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		err = CheckDebit("a", BalanceSummary{AccountCents: -1}, math.MinInt64)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("Credit Above Range", func(t *testing.T) {
		err := CheckDebit("a", BalanceSummary{AccountCents: math.MaxInt64 - 1}, 10)
		assert.ErrorIs(t, err, ErrValidation)
	})
}
