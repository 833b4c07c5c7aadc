package account

import (
	"net/http"

	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers/render"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/mapping"
	"github.com/chris/golf-league-ledger/pkg/models"
)

// AccountHandler serves the caller's own balance, donations and withdrawals.
type AccountHandler struct {
	Ledger ledger.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc ledger.AccountService) *AccountHandler {
	return &AccountHandler{Ledger: svc}
}

func (h *AccountHandler) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Ledger.GetMyBalanceSummary(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiBalanceSummary(summary))
}

func (h *AccountHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var body api.NewDonation
	if err := render.Decode(r, &body); err != nil {
		render.BadRequest(w, err)
		return
	}

	tx, err := h.Ledger.CreateDonation(r.Context(), body.SeasonId, models.TransactionType(body.DonationType), mapping.ToDomainAmount(body.Amount))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

func (h *AccountHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var body api.NewWithdrawal
	if err := render.Decode(r, &body); err != nil {
		render.BadRequest(w, err)
		return
	}

	tx, err := h.Ledger.CreateWithdrawalRequest(r.Context(), body.SeasonId, string(body.PayoutAddress), mapping.ToDomainAmount(body.Amount))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

func (h *AccountHandler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	var body api.NewPayout
	if err := render.Decode(r, &body); err != nil {
		render.BadRequest(w, err)
		return
	}

	result, err := h.Ledger.CreateWithdrawalAndDonations(r.Context(), mapping.ToDomainPayout(&body))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, mapping.ToApiPayoutResult(result))
}
