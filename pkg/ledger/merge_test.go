package ledger

import (
	"context"
	"testing"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminMergeMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("src", 300), member("dst", 700))
		store.PutTransaction(models.Transaction{Id: "t1", MemberId: "src", SeasonId: "s1", Amount: 500, TransactionType: models.Deposit, Status: models.COMPLETED})
		store.PutTransaction(models.Transaction{Id: "t2", MemberId: "src", SeasonId: "s1", Amount: -200, TransactionType: models.TourCardFee, Status: models.COMPLETED})
		store.PutTourCard(models.TourCard{Id: "card-1", MemberId: "src", SeasonId: "s1"})

		result, err := svc.AdminMergeMembers(ctx, "src", "dst", false)
		require.NoError(t, err)
		assert.Equal(t, &MergeResult{SourceID: "src", TargetID: "dst", TransactionsMoved: 2, TourCardsMoved: 1, AccountMovedCents: 300}, result)

		assert.Equal(t, int64(1000), accountOf(t, store, "dst"))
		_, err = store.GetMember(ctx, "src")
		assert.ErrorIs(t, err, ErrNotFound)

		left, err := store.ListTransactions(ctx, storage.TransactionFilter{MemberID: "src"})
		require.NoError(t, err)
		assert.Empty(t, left)
		moved, err := store.ListTransactions(ctx, storage.TransactionFilter{MemberID: "dst"})
		require.NoError(t, err)
		assert.Len(t, moved, 2)

		cards, err := store.ListTourCardsBySeason(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, "dst", cards[0].MemberId)
	})

	t.Run("Tour Card Conflict", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("src", 300), member("dst", 700))
		store.PutTransaction(models.Transaction{Id: "t1", MemberId: "src", SeasonId: "s1", Amount: 300, TransactionType: models.Deposit})
		store.PutTourCard(models.TourCard{Id: "card-src", MemberId: "src", SeasonId: "s1"})
		store.PutTourCard(models.TourCard{Id: "card-dst", MemberId: "dst", SeasonId: "s1"})

		_, err := svc.AdminMergeMembers(ctx, "src", "dst", false)
		assert.ErrorIs(t, err, ErrMergeConflict)
		assert.Equal(t, KindConflict, Kind(err))

		assert.Equal(t, int64(700), accountOf(t, store, "dst"))
		txn, err := store.GetTransaction(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "src", txn.MemberId)
	})

	t.Run("Tour Card Overwrite", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("src", 0), member("dst", 0))
		store.PutTourCard(models.TourCard{Id: "card-src", MemberId: "src", SeasonId: "s1"})
		store.PutTourCard(models.TourCard{Id: "card-dst", MemberId: "dst", SeasonId: "s1"})
		store.PutTourCard(models.TourCard{Id: "card-dst-2", MemberId: "dst", SeasonId: "s2"})

		result, err := svc.AdminMergeMembers(ctx, "src", "dst", true)
		require.NoError(t, err)
		assert.Equal(t, 1, result.TourCardsMoved)
		assert.Equal(t, 1, result.TourCardsReplaced)
		assert.Equal(t, int64(0), result.AccountMovedCents)

		cards, err := store.ListTourCardsBySeason(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, "card-src", cards[0].Id)
		assert.Equal(t, "dst", cards[0].MemberId)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, _ := newTestService(t, admin, member("a", 0))
		for _, ids := range [][2]string{{"", "a"}, {"a", ""}, {"a", "a"}} {
			_, err := svc.AdminMergeMembers(ctx, ids[0], ids[1], false)
			assert.ErrorIs(t, err, ErrValidation, ids)
		}
	})

	t.Run("Missing Target", func(t *testing.T) {
		svc, store := newTestService(t, admin, member("src", 300))
		_, err := svc.AdminMergeMembers(ctx, "src", "dst", false)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, int64(300), accountOf(t, store, "src"))
	})
}
