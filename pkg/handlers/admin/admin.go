package admin

import (
	"errors"
	"io"
	"net/http"

	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers/render"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/mapping"
)

// AdminHandler serves the audit and maintenance endpoints.
type AdminHandler struct {
	Ledger ledger.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc ledger.AdminService) *AdminHandler {
	return &AdminHandler{Ledger: svc}
}

func sumMode(params api.AuditParams) (ledger.SumMode, error) {
	if params.SumMode == nil {
		return ledger.SumCompleted, nil
	}
	return ledger.ParseSumMode(*params.SumMode)
}

func (h *AdminHandler) GetAccountAudit(w http.ResponseWriter, r *http.Request, params api.AuditParams) {
	mode, err := sumMode(params)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	audit, err := h.Ledger.AdminGetMemberAccountAudit(r.Context(), mode)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiAccountAudit(audit))
}

func (h *AdminHandler) GetMemberLedgerAudit(w http.ResponseWriter, r *http.Request, memberId string, params api.AuditParams) {
	mode, err := sumMode(params)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	audit, err := h.Ledger.AdminGetMemberLedgerForAudit(r.Context(), memberId, mode)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiMemberLedgerAudit(audit))
}

func (h *AdminHandler) GetSeasonWinningsAudit(w http.ResponseWriter, r *http.Request, seasonId string) {
	audit, err := h.Ledger.AdminGetTournamentWinningsAudit(r.Context(), seasonId)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiWinningsAudit(audit))
}

func (h *AdminHandler) MergeMembers(w http.ResponseWriter, r *http.Request) {
	var body api.MergeMembersRequest
	if err := render.Decode(r, &body); err != nil {
		render.BadRequest(w, err)
		return
	}

	result, err := h.Ledger.AdminMergeMembers(r.Context(), body.SourceId, body.TargetId, body.OverwriteConflict)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiMergeResult(result))
}

func (h *AdminHandler) BackfillTransactionMemberIds(w http.ResponseWriter, r *http.Request) {
	var body api.BackfillRequest
	if err := render.Decode(r, &body); err != nil && !errors.Is(err, io.EOF) {
		render.BadRequest(w, err)
		return
	}

	var limit int32
	if body.Limit != nil {
		limit = *body.Limit
	}
	result, err := h.Ledger.AdminBackfillTransactionMemberIDs(r.Context(), limit)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, mapping.ToApiBackfillResult(result))
}
