package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ListTransactionsParams filters a transaction listing.
type ListTransactionsParams struct {
	MemberId        *string `form:"memberId,omitempty" json:"memberId,omitempty"`
	SeasonId        *string `form:"seasonId,omitempty" json:"seasonId,omitempty"`
	TransactionType *string `form:"transactionType,omitempty" json:"transactionType,omitempty"`
	Status          *string `form:"status,omitempty" json:"status,omitempty"`
}

// ListTransactionsPageParams filters and pages a transaction listing.
type ListTransactionsPageParams struct {
	ListTransactionsParams
	Limit  *int32  `form:"limit,omitempty" json:"limit,omitempty"`
	Cursor *string `form:"cursor,omitempty" json:"cursor,omitempty"`
}

// AuditParams selects which transactions an account audit sums.
type AuditParams struct {
	SumMode *string `form:"sumMode,omitempty" json:"sumMode,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /transactions)
	CreateTransaction(w http.ResponseWriter, r *http.Request)
	// (GET /transactions)
	ListTransactions(w http.ResponseWriter, r *http.Request, params ListTransactionsParams)
	// (GET /transactions/page)
	ListTransactionsPage(w http.ResponseWriter, r *http.Request, params ListTransactionsPageParams)
	// (GET /transactions/{transactionId})
	GetTransactionById(w http.ResponseWriter, r *http.Request, transactionId string)
	// (PATCH /transactions/{transactionId})
	UpdateTransactionById(w http.ResponseWriter, r *http.Request, transactionId string)
	// (DELETE /transactions/{transactionId})
	DeleteTransactionById(w http.ResponseWriter, r *http.Request, transactionId string)
	// (GET /me/balance)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	// (POST /me/donations)
	CreateDonation(w http.ResponseWriter, r *http.Request)
	// (POST /me/withdrawals)
	CreateWithdrawal(w http.ResponseWriter, r *http.Request)
	// (POST /me/payouts)
	CreatePayout(w http.ResponseWriter, r *http.Request)
	// (GET /admin/audit/accounts)
	GetAccountAudit(w http.ResponseWriter, r *http.Request, params AuditParams)
	// (GET /admin/audit/accounts/{memberId})
	GetMemberLedgerAudit(w http.ResponseWriter, r *http.Request, memberId string, params AuditParams)
	// (GET /admin/audit/seasons/{seasonId}/winnings)
	GetSeasonWinningsAudit(w http.ResponseWriter, r *http.Request, seasonId string)
	// (POST /admin/members/merge)
	MergeMembers(w http.ResponseWriter, r *http.Request)
	// (POST /admin/transactions/backfill-member-ids)
	BackfillTransactionMemberIds(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts requests into typed parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is reported when a path or query parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	handler := http.Handler(fn)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

func (siw *ServerInterfaceWrapper) bindQuery(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

func (siw *ServerInterfaceWrapper) bindFilter(w http.ResponseWriter, r *http.Request, params *ListTransactionsParams) bool {
	return siw.bindQuery(w, r, "memberId", &params.MemberId) &&
		siw.bindQuery(w, r, "seasonId", &params.SeasonId) &&
		siw.bindQuery(w, r, "transactionType", &params.TransactionType) &&
		siw.bindQuery(w, r, "status", &params.Status)
}

func (siw *ServerInterfaceWrapper) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateTransaction)
}

func (siw *ServerInterfaceWrapper) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var params ListTransactionsParams
	if !siw.bindFilter(w, r, &params) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListTransactions(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) ListTransactionsPage(w http.ResponseWriter, r *http.Request) {
	var params ListTransactionsPageParams
	if !siw.bindFilter(w, r, &params.ListTransactionsParams) ||
		!siw.bindQuery(w, r, "limit", &params.Limit) ||
		!siw.bindQuery(w, r, "cursor", &params.Cursor) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListTransactionsPage(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) GetTransactionById(w http.ResponseWriter, r *http.Request) {
	var transactionId string
	if !siw.bindPath(w, r, "transactionId", &transactionId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetTransactionById(w, r, transactionId)
	})
}

func (siw *ServerInterfaceWrapper) UpdateTransactionById(w http.ResponseWriter, r *http.Request) {
	var transactionId string
	if !siw.bindPath(w, r, "transactionId", &transactionId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.UpdateTransactionById(w, r, transactionId)
	})
}

func (siw *ServerInterfaceWrapper) DeleteTransactionById(w http.ResponseWriter, r *http.Request) {
	var transactionId string
	if !siw.bindPath(w, r, "transactionId", &transactionId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteTransactionById(w, r, transactionId)
	})
}

func (siw *ServerInterfaceWrapper) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetMyBalance)
}

func (siw *ServerInterfaceWrapper) CreateDonation(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateDonation)
}

func (siw *ServerInterfaceWrapper) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateWithdrawal)
}

func (siw *ServerInterfaceWrapper) CreatePayout(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreatePayout)
}

func (siw *ServerInterfaceWrapper) GetAccountAudit(w http.ResponseWriter, r *http.Request) {
	var params AuditParams
	if !siw.bindQuery(w, r, "sumMode", &params.SumMode) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetAccountAudit(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) GetMemberLedgerAudit(w http.ResponseWriter, r *http.Request) {
	var memberId string
	var params AuditParams
	if !siw.bindPath(w, r, "memberId", &memberId) || !siw.bindQuery(w, r, "sumMode", &params.SumMode) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetMemberLedgerAudit(w, r, memberId, params)
	})
}

func (siw *ServerInterfaceWrapper) GetSeasonWinningsAudit(w http.ResponseWriter, r *http.Request) {
	var seasonId string
	if !siw.bindPath(w, r, "seasonId", &seasonId) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSeasonWinningsAudit(w, r, seasonId)
	})
}

func (siw *ServerInterfaceWrapper) MergeMembers(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.MergeMembers)
}

func (siw *ServerInterfaceWrapper) BackfillTransactionMemberIds(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.BackfillTransactionMemberIds)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates http.Handler with routing matching the ledger API.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerFromMux mounts the ledger API on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL
	r.Group(func(r chi.Router) {
		r.Post(base+"/transactions", wrapper.CreateTransaction)
		r.Get(base+"/transactions", wrapper.ListTransactions)
		r.Get(base+"/transactions/page", wrapper.ListTransactionsPage)
		r.Get(base+"/transactions/{transactionId}", wrapper.GetTransactionById)
		r.Patch(base+"/transactions/{transactionId}", wrapper.UpdateTransactionById)
		r.Delete(base+"/transactions/{transactionId}", wrapper.DeleteTransactionById)

		r.Get(base+"/me/balance", wrapper.GetMyBalance)
		r.Post(base+"/me/donations", wrapper.CreateDonation)
		r.Post(base+"/me/withdrawals", wrapper.CreateWithdrawal)
		r.Post(base+"/me/payouts", wrapper.CreatePayout)

		r.Get(base+"/admin/audit/accounts", wrapper.GetAccountAudit)
		r.Get(base+"/admin/audit/accounts/{memberId}", wrapper.GetMemberLedgerAudit)
		r.Get(base+"/admin/audit/seasons/{seasonId}/winnings", wrapper.GetSeasonWinningsAudit)
		r.Post(base+"/admin/members/merge", wrapper.MergeMembers)
		r.Post(base+"/admin/transactions/backfill-member-ids", wrapper.BackfillTransactionMemberIds)
	})
	return r
}
