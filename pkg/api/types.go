// Package api holds the HTTP contract of the ledger: request and response bodies, the server
// interface the handlers implement and the chi wiring that binds path and query parameters.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Transaction is a ledger record as returned to clients. Amount is signed cents.
type Transaction struct {
	Id              string     `json:"id"`
	MemberId        *string    `json:"memberId,omitempty"`
	SeasonId        string     `json:"seasonId"`
	Amount          int64      `json:"amount"`
	TransactionType string     `json:"transactionType"`
	Status          string     `json:"status"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
	PayoutAddress   *string    `json:"payoutAddress,omitempty"`
	Description     *string    `json:"description,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewTransaction is the body of an admin create. Amount is in cents and is sign-normalized by the
// server for the transaction type.
type NewTransaction struct {
	MemberId        string     `json:"memberId" validate:"required"`
	SeasonId        string     `json:"seasonId" validate:"required"`
	TransactionType string     `json:"transactionType" validate:"required"`
	Amount          float64    `json:"amount" validate:"required"`
	Status          *string    `json:"status,omitempty" validate:"omitempty,oneof=pending completed failed cancelled"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=500"`
}

// TransactionPatch is the body of an admin update. Absent fields are left unchanged.
type TransactionPatch struct {
	MemberId        *string    `json:"memberId,omitempty" validate:"omitempty,min=1"`
	Amount          *float64   `json:"amount,omitempty"`
	TransactionType *string    `json:"transactionType,omitempty"`
	Status          *string    `json:"status,omitempty" validate:"omitempty,oneof=pending completed failed cancelled"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	NextCursor   *string       `json:"nextCursor,omitempty"`
}

// BalanceSummary is a member's account, pending withdrawals and the balance left to spend.
type BalanceSummary struct {
	AccountCents           int64 `json:"accountCents"`
	PendingWithdrawalCents int64 `json:"pendingWithdrawalCents"`
	AvailableCents         int64 `json:"availableCents"`
}

// NewDonation is a self-service donation request.
type NewDonation struct {
	SeasonId     string `json:"seasonId" validate:"required"`
	DonationType string `json:"donationType" validate:"required,oneof=LeagueDonation CharityDonation"`
	Amount       Money  `json:"amount"`
}

// NewWithdrawal is a self-service withdrawal request.
type NewWithdrawal struct {
	SeasonId      string              `json:"seasonId" validate:"required"`
	PayoutAddress openapi_types.Email `json:"payoutAddress" validate:"required"`
	Amount        Money               `json:"amount"`
}

// NewPayout combines an optional withdrawal with optional donations.
type NewPayout struct {
	SeasonId        string               `json:"seasonId" validate:"required"`
	PayoutAddress   *openapi_types.Email `json:"payoutAddress,omitempty"`
	Withdrawal      *Money               `json:"withdrawal,omitempty"`
	LeagueDonation  *Money               `json:"leagueDonation,omitempty"`
	CharityDonation *Money               `json:"charityDonation,omitempty"`
}

// PayoutResult is what a combined payout request created.
type PayoutResult struct {
	Created []Transaction `json:"created"`
	BalanceSummary
}

// MergeMembersRequest asks to fold one member into another.
type MergeMembersRequest struct {
	SourceId          string `json:"sourceId" validate:"required"`
	TargetId          string `json:"targetId" validate:"required,nefield=SourceId"`
	OverwriteConflict bool   `json:"overwriteConflict"`
}

// MergeMembersResult counts what a merge moved.
type MergeMembersResult struct {
	SourceId          string `json:"sourceId"`
	TargetId          string `json:"targetId"`
	TransactionsMoved int    `json:"transactionsMoved"`
	TourCardsMoved    int    `json:"tourCardsMoved"`
	TourCardsReplaced int    `json:"tourCardsReplaced"`
	AccountMovedCents int64  `json:"accountMovedCents"`
}

// BackfillRequest bounds one member-id backfill run.
type BackfillRequest struct {
	Limit *int32 `json:"limit,omitempty" validate:"omitempty,min=1,max=1000"`
}

// BackfillResult counts what a backfill run did.
type BackfillResult struct {
	Scanned   int `json:"scanned"`
	Updated   int `json:"updated"`
	Unmatched int `json:"unmatched"`
}

// AccountMismatch is a member whose account disagrees with the ledger.
type AccountMismatch struct {
	MemberId         string `json:"memberId"`
	DisplayName      string `json:"displayName"`
	AccountCents     int64  `json:"accountCents"`
	LedgerSumCents   int64  `json:"ledgerSumCents"`
	DeltaCents       int64  `json:"deltaCents"`
	TransactionCount int    `json:"transactionCount"`
}

// OutstandingBalance is a member holding a non-zero account.
type OutstandingBalance struct {
	MemberId     string `json:"memberId"`
	DisplayName  string `json:"displayName"`
	AccountCents int64  `json:"accountCents"`
}

// AccountAudit reconciles every member account with the ledger.
type AccountAudit struct {
	SumMode                string               `json:"sumMode"`
	MemberCount            int                  `json:"memberCount"`
	Mismatches             []AccountMismatch    `json:"mismatches"`
	OutstandingBalances    []OutstandingBalance `json:"outstandingBalances"`
	UnassignedTransactions int                  `json:"unassignedTransactions"`
	OrphanedTransactions   int                  `json:"orphanedTransactions"`
}

// Member is the member summary shown in audit views.
type Member struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	Account     int64  `json:"account"`
}

// LedgerLine is a transaction in a member ledger audit.
type LedgerLine struct {
	Transaction
	Included bool `json:"included"`
}

// MemberLedgerAudit lists a member's transactions against the stored account.
type MemberLedgerAudit struct {
	Member           Member       `json:"member"`
	SumMode          string       `json:"sumMode"`
	AccountCents     int64        `json:"accountCents"`
	IncludedSumCents int64        `json:"includedSumCents"`
	DeltaCents       int64        `json:"deltaCents"`
	Transactions     []LedgerLine `json:"transactions"`
}

// TournamentEarnings is one tournament's share of a member's expected winnings.
type TournamentEarnings struct {
	TournamentId   string `json:"tournamentId"`
	TournamentName string `json:"tournamentName"`
	EarningsCents  int64  `json:"earningsCents"`
}

// WinningsMismatch is a member whose recorded winnings differ from team earnings.
type WinningsMismatch struct {
	MemberId      string               `json:"memberId"`
	DisplayName   string               `json:"displayName"`
	ExpectedCents int64                `json:"expectedCents"`
	RecordedCents int64                `json:"recordedCents"`
	DeltaCents    int64                `json:"deltaCents"`
	Tournaments   []TournamentEarnings `json:"tournaments"`
	Transactions  []Transaction        `json:"transactions"`
}

// TournamentSummary describes one tournament of an audited season.
type TournamentSummary struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	TeamCount     int    `json:"teamCount"`
	EarningsCents int64  `json:"earningsCents"`
}

// WinningsAudit compares team earnings with recorded winnings for a season.
type WinningsAudit struct {
	SeasonId    string              `json:"seasonId"`
	Mismatches  []WinningsMismatch  `json:"mismatches"`
	Tournaments []TournamentSummary `json:"tournaments"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Error   string            `json:"error"`
	Kind    string            `json:"kind"`
	Details map[string]string `json:"details,omitempty"`
}

// Money is a self-service amount. It accepts a JSON number of whole cents or a JSON string holding
// a major-currency amount such as "$12.50".
type Money struct {
	Cents   *int64
	Decimal string
}

var errMoneyFormat = errors.New("amount must be a whole number of cents or a decimal string")

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Money{Decimal: s}
		return nil
	}
	cents, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", errMoneyFormat, data)
	}
	*m = Money{Cents: &cents}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	if m.Cents != nil {
		return []byte(strconv.FormatInt(*m.Cents, 10)), nil
	}
	return json.Marshal(m.Decimal)
}
