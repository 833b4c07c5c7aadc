package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers/render"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/ledger/mocks"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fixture struct {
	txs      *mocks.TransactionService
	accounts *mocks.AccountService
	admins   *mocks.AdminService
	router   http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		txs:      new(mocks.TransactionService),
		accounts: new(mocks.AccountService),
		admins:   new(mocks.AdminService),
	}
	h := NewApiHandler(f.txs, f.accounts, f.admins)
	f.router = api.HandlerWithOptions(h, api.ChiServerOptions{ErrorHandlerFunc: render.ParamError})
	return f
}

func (f *fixture) do(method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestRouting(t *testing.T) {
	t.Run("Transaction By Id", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.txs.On("GetTransaction", mock.Anything, id.String()).Return(&models.Transaction{Id: id.String()}, nil)

		rr := f.do(http.MethodGet, "/transactions/"+id.String())

		assert.Equal(t, http.StatusOK, rr.Code)
		f.txs.AssertExpectations(t)
	})

	t.Run("Legacy Transaction Id", func(t *testing.T) {
		f := newFixture()
		f.txs.On("GetTransaction", mock.Anything, "legacy-1042").Return(&models.Transaction{Id: "legacy-1042"}, nil)
		f.txs.On("DeleteTransaction", mock.Anything, "legacy-1042").Return(&models.Transaction{Id: "legacy-1042"}, nil)

		rr := f.do(http.MethodGet, "/transactions/legacy-1042")
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = f.do(http.MethodDelete, "/transactions/legacy-1042")
		assert.Equal(t, http.StatusOK, rr.Code)
		f.txs.AssertExpectations(t)
	})

	t.Run("Page Query Parameters", func(t *testing.T) {
		f := newFixture()
		f.txs.On("ListTransactionsPage", mock.Anything,
			storage.TransactionFilter{SeasonID: "2025", Status: models.PENDING},
			storage.Page{Limit: 10, Cursor: "abc"},
		).Return(&storage.TransactionPage{}, nil)

		rr := f.do(http.MethodGet, "/transactions/page?seasonId=2025&status=pending&limit=10&cursor=abc")

		assert.Equal(t, http.StatusOK, rr.Code)
		f.txs.AssertExpectations(t)
	})

	t.Run("Malformed Limit", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodGet, "/transactions/page?limit=ten")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Member Filter", func(t *testing.T) {
		f := newFixture()
		f.txs.On("ListTransactions", mock.Anything, storage.TransactionFilter{MemberID: "a", TransactionType: models.Withdrawal}).
			Return([]models.Transaction{}, nil)

		rr := f.do(http.MethodGet, "/transactions?memberId=a&transactionType=Withdrawal")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Member Ledger Audit", func(t *testing.T) {
		f := newFixture()
		f.admins.On("AdminGetMemberLedgerForAudit", mock.Anything, "member-1", ledger.SumAll).
			Return(&ledger.MemberLedgerAudit{Member: models.Member{Id: "member-1"}, SumMode: ledger.SumAll}, nil)

		rr := f.do(http.MethodGet, "/admin/audit/accounts/member-1?sumMode=all")

		assert.Equal(t, http.StatusOK, rr.Code)
		f.admins.AssertExpectations(t)
	})

	t.Run("Balance", func(t *testing.T) {
		f := newFixture()
		f.accounts.On("GetMyBalanceSummary", mock.Anything).Return(&ledger.BalanceSummary{AccountCents: 10, AvailableCents: 10}, nil)

		rr := f.do(http.MethodGet, "/me/balance")

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
