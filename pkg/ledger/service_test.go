package ledger

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
	"github.com/chris/golf-league-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var (
	admin     = access.Caller{MemberID: "admin", Role: models.RoleAdmin}
	moderator = access.Caller{MemberID: "mod", Role: models.RoleModerator}
)

func member(id string, account int64) models.Member {
	return models.Member{Id: id, ExternalId: "ext-" + id, FirstName: "Player", LastName: id, Role: models.RoleRegular, Account: account}
}

func newTestService(t *testing.T, caller access.Caller, members ...models.Member) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	for _, m := range members {
		store.PutMember(m)
	}
	seq := 0
	svc := NewService(store, access.Static(caller),
		WithClock(FixedClock(testNow)),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("txn-%d", seq)
		}),
	)
	return svc, store
}

func accountOf(t *testing.T, store *memory.Store, id string) int64 {
	t.Helper()
	m, err := store.GetMember(context.Background(), id)
	require.NoError(t, err)
	return m.Account
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 1000))

		txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			MemberID: "a", SeasonID: "s1", TransactionType: models.TourCardFee, Amount: 2500,
		})
		require.NoError(t, err)
		assert.Equal(t, "txn-1", txn.Id)
		assert.Equal(t, int64(-2500), txn.Amount)
		assert.Equal(t, models.COMPLETED, txn.Status)
		require.NotNil(t, txn.ProcessedAt)
		assert.Equal(t, testNow, *txn.ProcessedAt)
		assert.Equal(t, int64(-1500), accountOf(t, store, "a"))

		stored, err := store.GetTransaction(ctx, txn.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("Pending Leaves Balance", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 1000))

		txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			MemberID: "a", SeasonID: "s1", TransactionType: models.Deposit, Amount: 700, Status: models.PENDING,
		})
		require.NoError(t, err)
		assert.Nil(t, txn.ProcessedAt)
		assert.Equal(t, int64(1000), accountOf(t, store, "a"))
	})

	t.Run("Round Trip Sum", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 0))

		inputs := []struct {
			kind   models.TransactionType
			amount float64
		}{
			{models.TournamentWinnings, 5000},
			{models.TourCardFee, 2500},
			{models.Adjustment, -120},
			{models.Refund, -300},
			{models.CharityDonation, 450},
			{models.Deposit, 99.7},
		}
		var sum int64
		for _, in := range inputs {
			txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
				MemberID: "a", SeasonID: "s1", TransactionType: in.kind, Amount: in.amount,
			})
			require.NoError(t, err)
			sum += txn.Amount
		}
		assert.Equal(t, int64(5000-2500-120+300-450+99), sum)
		assert.Equal(t, sum, accountOf(t, store, "a"))
	})

	t.Run("Unknown Member", func(t *testing.T) {
		svc, store := newTestService(t, admin)

		_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			MemberID: "ghost", SeasonID: "s1", TransactionType: models.Deposit, Amount: 100,
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, KindNotFound, Kind(err))

		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{})
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, _ := newTestService(t, admin, member("a", 0))

		cases := []CreateTransactionInput{
			{MemberID: "a", SeasonID: "s1", TransactionType: models.Deposit, Amount: 0},
			{MemberID: "a", SeasonID: "s1", TransactionType: "Bribe", Amount: 100},
			{MemberID: "", SeasonID: "s1", TransactionType: models.Deposit, Amount: 100},
			{MemberID: "a", SeasonID: "", TransactionType: models.Deposit, Amount: 100},
			{MemberID: "a", SeasonID: "s1", TransactionType: models.Deposit, Amount: 100, Status: "lost"},
		}
		for _, in := range cases {
			_, err := svc.CreateTransaction(ctx, in)
			assert.ErrorIs(t, err, ErrValidation, "%+v", in)
		}
	})

	t.Run("Forbidden", func(t *testing.T) {
		svc, store := newTestService(t, moderator, member("a", 0))

		_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			MemberID: "a", SeasonID: "s1", TransactionType: models.Deposit, Amount: 100,
		})
		assert.ErrorIs(t, err, access.ErrForbidden)
		assert.Equal(t, int64(0), accountOf(t, store, "a"))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc, _ := newTestService(t, access.Caller{}, member("a", 0))

		_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			MemberID: "a", SeasonID: "s1", TransactionType: models.Deposit, Amount: 100,
		})
		assert.Equal(t, KindUnauthenticated, Kind(err))
	})

	t.Run("Account Overflow", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", math.MaxInt64-10))

		_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			MemberID: "a", SeasonID: "s1", TransactionType: models.Deposit, Amount: 1000,
		})
		assert.ErrorIs(t, err, storage.ErrAccountOverflow)
		assert.Equal(t, KindValidation, Kind(err))
		assert.Equal(t, int64(math.MaxInt64-10), accountOf(t, store, "a"))

		txs, err := store.ListTransactions(ctx, storage.TransactionFilter{MemberID: "a"})
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancel Then Complete With New Amount", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 0))

		txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			MemberID: "a", SeasonID: "s1", TransactionType: models.TournamentWinnings, Amount: 5000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5000), accountOf(t, store, "a"))

		_, err = svc.UpdateTransaction(ctx, txn.Id, UpdatePatch{Status: ptr(models.CANCELLED)})
		require.NoError(t, err)
		assert.Equal(t, int64(0), accountOf(t, store, "a"))

		updated, err := svc.UpdateTransaction(ctx, txn.Id, UpdatePatch{Status: ptr(models.COMPLETED), Amount: ptr(3000.0)})
		require.NoError(t, err)
		assert.Equal(t, int64(3000), updated.Amount)
		assert.Equal(t, int64(3), updated.Version)
		assert.Equal(t, int64(3000), accountOf(t, store, "a"))
	})

	t.Run("Pending To Pending", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 400))
		txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			MemberID: "a", SeasonID: "s1", TransactionType: models.Withdrawal, Amount: 200, Status: models.PENDING,
		})
		require.NoError(t, err)

		updated, err := svc.UpdateTransaction(ctx, txn.Id, UpdatePatch{Status: ptr(models.PENDING)})
		require.NoError(t, err)
		assert.Equal(t, int64(-200), updated.Amount)
		assert.Equal(t, int64(400), accountOf(t, store, "a"))
	})

	t.Run("Repoint To Another Member", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 1000), member("b", 0))
		store.PutTransaction(models.Transaction{
			Id: "fee", MemberId: "a", SeasonId: "s1", Amount: -1000,
			TransactionType: models.TourCardFee, Status: models.COMPLETED,
		})

		updated, err := svc.UpdateTransaction(ctx, "fee", UpdatePatch{MemberID: ptr("b")})
		require.NoError(t, err)
		assert.Equal(t, "b", updated.MemberId)
		assert.Equal(t, int64(2000), accountOf(t, store, "a"))
		assert.Equal(t, int64(-1000), accountOf(t, store, "b"))
	})

	t.Run("Repoint To Missing Member Writes Nothing", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 1000))
		store.PutTransaction(models.Transaction{
			Id: "fee", MemberId: "a", SeasonId: "s1", Amount: -1000,
			TransactionType: models.TourCardFee, Status: models.COMPLETED,
		})

		_, err := svc.UpdateTransaction(ctx, "fee", UpdatePatch{MemberID: ptr("ghost")})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, int64(1000), accountOf(t, store, "a"))
		stored, err := store.GetTransaction(ctx, "fee")
		require.NoError(t, err)
		assert.Equal(t, "a", stored.MemberId)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc, _ := newTestService(t, admin)
		_, err := svc.UpdateTransaction(ctx, "nope", UpdatePatch{Status: ptr(models.FAILED)})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Invalid Patch", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 0))
		store.PutTransaction(models.Transaction{Id: "t1", MemberId: "a", Amount: 100, TransactionType: models.Deposit})

		_, err := svc.UpdateTransaction(ctx, "t1", UpdatePatch{Amount: ptr(0.2)})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("a", 500))
		store.PutTransaction(models.Transaction{Id: "t1", MemberId: "a", Amount: 500, TransactionType: models.Deposit, Status: models.COMPLETED})

		deleted, err := svc.DeleteTransaction(ctx, "t1")
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.Equal(t, "t1", deleted.Id)
		assert.Equal(t, int64(500), accountOf(t, store, "a"))

		_, err = store.GetTransaction(ctx, "t1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Missing Is Not An Error", func(t *testing.T) {
		svc, _ := newTestService(t, admin)
		deleted, err := svc.DeleteTransaction(ctx, "t1")
		assert.NoError(t, err)
		assert.Nil(t, deleted)
	})

	t.Run("Forbidden", func(t *testing.T) {
		svc, _ := newTestService(t, access.Caller{MemberID: "a", Role: models.RoleRegular})
		_, err := svc.DeleteTransaction(ctx, "t1")
		assert.ErrorIs(t, err, access.ErrForbidden)
	})
}

func TestGetTransaction(t *testing.T) {
	ctx := context.Background()
	seed := func(store *memory.Store) {
		store.PutTransaction(models.Transaction{Id: "t1", MemberId: "a", Amount: 100, TransactionType: models.Deposit})
	}

	t.Run("Owner", func(t *testing.T) {
		svc, store := newTestService(t, access.Caller{MemberID: "a", Role: models.RoleRegular})
		seed(store)
		txn, err := svc.GetTransaction(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "t1", txn.Id)
	})

	t.Run("Moderator", func(t *testing.T) {
		svc, store := newTestService(t, moderator)
		seed(store)
		_, err := svc.GetTransaction(ctx, "t1")
		assert.NoError(t, err)
	})

	t.Run("Other Member", func(t *testing.T) {
		svc, store := newTestService(t, access.Caller{MemberID: "b", Role: models.RoleRegular})
		seed(store)
		_, err := svc.GetTransaction(ctx, "t1")
		assert.ErrorIs(t, err, access.ErrForbidden)
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	seed := func(store *memory.Store) {
		for i, owner := range []string{"a", "a", "b"} {
			store.PutTransaction(models.Transaction{
				Id: fmt.Sprintf("t%d", i), MemberId: owner, SeasonId: "s1", Amount: 100,
				TransactionType: models.Deposit, Status: models.COMPLETED,
				CreatedAt: testNow.Add(time.Duration(i) * time.Minute),
			})
		}
	}

	t.Run("Own Transactions", func(t *testing.T) {
		svc, store := newTestService(t, access.Caller{MemberID: "a", Role: models.RoleRegular})
		seed(store)
		txs, err := svc.ListTransactions(ctx, storage.TransactionFilter{MemberID: "a"})
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("Everyone Requires Moderator", func(t *testing.T) {
		svc, store := newTestService(t, access.Caller{MemberID: "a", Role: models.RoleRegular})
		seed(store)
		_, err := svc.ListTransactions(ctx, storage.TransactionFilter{})
		assert.ErrorIs(t, err, access.ErrForbidden)

		svc, store = newTestService(t, moderator)
		seed(store)
		txs, err := svc.ListTransactions(ctx, storage.TransactionFilter{})
		require.NoError(t, err)
		assert.Len(t, txs, 3)
	})

	t.Run("Invalid Filter", func(t *testing.T) {
		svc, _ := newTestService(t, admin)
		_, err := svc.ListTransactions(ctx, storage.TransactionFilter{Status: "lost"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Page", func(t *testing.T) {
		svc, store := newTestService(t, admin)
		seed(store)

		first, err := svc.ListTransactionsPage(ctx, storage.TransactionFilter{}, storage.Page{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, first.Transactions, 2)
		require.NotEmpty(t, first.NextCursor)

		second, err := svc.ListTransactionsPage(ctx, storage.TransactionFilter{}, storage.Page{Limit: 2, Cursor: first.NextCursor})
		require.NoError(t, err)
		assert.Len(t, second.Transactions, 1)
		assert.Empty(t, second.NextCursor)

		_, err = svc.ListTransactionsPage(ctx, storage.TransactionFilter{}, storage.Page{Limit: 501})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
