package handlers

import (
	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers/account"
	"github.com/chris/golf-league-ledger/pkg/handlers/admin"
	"github.com/chris/golf-league-ledger/pkg/handlers/transactions"
	"github.com/chris/golf-league-ledger/pkg/ledger"
)

// ApiHandler implements the generated server interface by composing the handler groups.
type ApiHandler struct {
	*transactions.TransactionsHandler
	*account.AccountHandler
	*admin.AdminHandler
}

// NewApiHandler creates a new ApiHandler from the ledger services.
func NewApiHandler(txs ledger.TransactionService, accounts ledger.AccountService, admins ledger.AdminService) *ApiHandler {
	return &ApiHandler{
		TransactionsHandler: transactions.NewTransactionsHandler(txs),
		AccountHandler:      account.NewAccountHandler(accounts),
		AdminHandler:        admin.NewAdminHandler(admins),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
