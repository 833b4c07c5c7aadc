package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers/account"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/ledger/mocks"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetMyBalance(t *testing.T) {
	mockLedger := new(mocks.AccountService)
	mockLedger.On("GetMyBalanceSummary", mock.Anything).
		Return(&ledger.BalanceSummary{AccountCents: 0, PendingWithdrawalCents: -2000, AvailableCents: -2000}, nil)

	h := account.NewAccountHandler(mockLedger)
	rr := httptest.NewRecorder()
	h.GetMyBalance(rr, httptest.NewRequest(http.MethodGet, "/me/balance", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"accountCents":0,"pendingWithdrawalCents":-2000,"availableCents":-2000}`, rr.Body.String())
}

func TestCreateDonation(t *testing.T) {
	t.Run("Decimal Amount", func(t *testing.T) {
		mockLedger := new(mocks.AccountService)
		mockLedger.On("CreateDonation", mock.Anything, "2025", models.CharityDonation, ledger.DecimalAmount("$12.50")).
			Return(&models.Transaction{Id: "t1", Amount: -1250, TransactionType: models.CharityDonation, Status: models.COMPLETED}, nil)

		h := account.NewAccountHandler(mockLedger)
		body := `{"seasonId":"2025","donationType":"CharityDonation","amount":"$12.50"}`
		rr := httptest.NewRecorder()
		h.CreateDonation(rr, httptest.NewRequest(http.MethodPost, "/me/donations", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Cents Amount", func(t *testing.T) {
		mockLedger := new(mocks.AccountService)
		mockLedger.On("CreateDonation", mock.Anything, "2025", models.LeagueDonation, ledger.MinorUnits(2001)).
			Return(nil, &ledger.InsufficientBalanceError{MemberID: "a", PendingWithdrawalCents: -2000, ProposedCents: -2001})

		h := account.NewAccountHandler(mockLedger)
		body := `{"seasonId":"2025","donationType":"LeagueDonation","amount":2001}`
		rr := httptest.NewRecorder()
		h.CreateDonation(rr, httptest.NewRequest(http.MethodPost, "/me/donations", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		var errBody api.Error
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errBody))
		assert.Equal(t, "insufficient_balance", errBody.Kind)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Fractional Cents Rejected", func(t *testing.T) {
		mockLedger := new(mocks.AccountService)
		h := account.NewAccountHandler(mockLedger)
		body := `{"seasonId":"2025","donationType":"LeagueDonation","amount":12.5}`
		rr := httptest.NewRecorder()
		h.CreateDonation(rr, httptest.NewRequest(http.MethodPost, "/me/donations", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Wrong Donation Type", func(t *testing.T) {
		mockLedger := new(mocks.AccountService)
		h := account.NewAccountHandler(mockLedger)
		body := `{"seasonId":"2025","donationType":"Deposit","amount":100}`
		rr := httptest.NewRecorder()
		h.CreateDonation(rr, httptest.NewRequest(http.MethodPost, "/me/donations", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Non Positive Amount", func(t *testing.T) {
		mockLedger := new(mocks.AccountService)
		mockLedger.On("CreateDonation", mock.Anything, "2025", models.LeagueDonation, ledger.MinorUnits(0)).
			Return(nil, &ledger.ValidationError{Field: "amount", Reason: "must be a positive number of cents"})

		h := account.NewAccountHandler(mockLedger)
		body := `{"seasonId":"2025","donationType":"LeagueDonation","amount":0}`
		rr := httptest.NewRecorder()
		h.CreateDonation(rr, httptest.NewRequest(http.MethodPost, "/me/donations", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var errBody api.Error
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errBody))
		assert.Equal(t, "must be a positive number of cents", errBody.Details["amount"])
	})
}

func TestCreateWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockLedger := new(mocks.AccountService)
		mockLedger.On("CreateWithdrawalRequest", mock.Anything, "2025", "pay@example.com", ledger.DecimalAmount("10.00")).
			Return(&models.Transaction{Id: "w1", Amount: -1000, TransactionType: models.Withdrawal, Status: models.PENDING, PayoutAddress: "pay@example.com"}, nil)

		h := account.NewAccountHandler(mockLedger)
		body := `{"seasonId":"2025","payoutAddress":"pay@example.com","amount":"10.00"}`
		rr := httptest.NewRecorder()
		h.CreateWithdrawal(rr, httptest.NewRequest(http.MethodPost, "/me/withdrawals", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var tx api.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tx))
		assert.Equal(t, "pending", tx.Status)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Invalid Payout Address", func(t *testing.T) {
		mockLedger := new(mocks.AccountService)
		h := account.NewAccountHandler(mockLedger)
		body := `{"seasonId":"2025","payoutAddress":"not-an-email","amount":100}`
		rr := httptest.NewRecorder()
		h.CreateWithdrawal(rr, httptest.NewRequest(http.MethodPost, "/me/withdrawals", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCreatePayout(t *testing.T) {
	mockLedger := new(mocks.AccountService)
	mockLedger.On("CreateWithdrawalAndDonations", mock.Anything, mock.MatchedBy(func(in ledger.WithdrawalAndDonationsInput) bool {
		return in.SeasonID == "2025" &&
			in.PayoutAddress == "pay@example.com" &&
			in.Withdrawal != nil && *in.Withdrawal.MinorUnits == 1000 &&
			in.LeagueDonation == nil &&
			in.CharityDonation != nil && in.CharityDonation.Decimal == "2.50"
	})).Return(&ledger.SubmissionResult{
		Created: []models.Transaction{
			{Id: "w1", Amount: -1000, TransactionType: models.Withdrawal, Status: models.PENDING},
			{Id: "d1", Amount: -250, TransactionType: models.CharityDonation, Status: models.COMPLETED},
		},
		BalanceSummary: ledger.BalanceSummary{AccountCents: 4750, PendingWithdrawalCents: -1000, AvailableCents: 3750},
	}, nil)

	h := account.NewAccountHandler(mockLedger)
	body := `{"seasonId":"2025","payoutAddress":"pay@example.com","withdrawal":1000,"charityDonation":"2.50"}`
	rr := httptest.NewRecorder()
	h.CreatePayout(rr, httptest.NewRequest(http.MethodPost, "/me/payouts", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var result api.PayoutResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Len(t, result.Created, 2)
	assert.Equal(t, int64(3750), result.AvailableCents)
	mockLedger.AssertExpectations(t)
}
