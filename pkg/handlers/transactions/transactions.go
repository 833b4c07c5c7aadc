package transactions

import (
	"net/http"

	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers/render"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/mapping"
)

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Ledger ledger.TransactionService
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(svc ledger.TransactionService) *TransactionsHandler {
	return &TransactionsHandler{Ledger: svc}
}

// CreateTransaction records an admin transaction.
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var newTx api.NewTransaction
	if err := render.Decode(r, &newTx); err != nil {
		render.BadRequest(w, err)
		return
	}

	created, err := h.Ledger.CreateTransaction(r.Context(), mapping.ToDomainNewTransaction(&newTx))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, mapping.ToApiTransaction(created))
}

// ListTransactions returns every transaction matching the filter.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request, params api.ListTransactionsParams) {
	txs, err := h.Ledger.ListTransactions(r.Context(), mapping.ToDomainFilter(params))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiTransactions(txs))
}

// ListTransactionsPage returns one page of transactions matching the filter.
func (h *TransactionsHandler) ListTransactionsPage(w http.ResponseWriter, r *http.Request, params api.ListTransactionsPageParams) {
	page, err := h.Ledger.ListTransactionsPage(r.Context(), mapping.ToDomainFilter(params.ListTransactionsParams), mapping.ToDomainPage(params))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiTransactionPage(page))
}

// GetTransactionById handles the logic for retrieving a transaction by its ID.
func (h *TransactionsHandler) GetTransactionById(w http.ResponseWriter, r *http.Request, transactionId string) {
	tx, err := h.Ledger.GetTransaction(r.Context(), transactionId)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// UpdateTransactionById applies an admin patch.
func (h *TransactionsHandler) UpdateTransactionById(w http.ResponseWriter, r *http.Request, transactionId string) {
	var patch api.TransactionPatch
	if err := render.Decode(r, &patch); err != nil {
		render.BadRequest(w, err)
		return
	}

	updated, err := h.Ledger.UpdateTransaction(r.Context(), transactionId, mapping.ToDomainPatch(&patch))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiTransaction(updated))
}

// DeleteTransactionById hard-deletes a transaction. Deleting a missing transaction is a 204.
func (h *TransactionsHandler) DeleteTransactionById(w http.ResponseWriter, r *http.Request, transactionId string) {
	deleted, err := h.Ledger.DeleteTransaction(r.Context(), transactionId)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if deleted == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiTransaction(deleted))
}
