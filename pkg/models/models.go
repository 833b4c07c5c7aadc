package models

import (
	"time"
)

// TransactionStatus defines the possible states of a ledger transaction.
type TransactionStatus string

const (
	PENDING   TransactionStatus = "pending"
	COMPLETED TransactionStatus = "completed"
	FAILED    TransactionStatus = "failed"
	CANCELLED TransactionStatus = "cancelled"
)

// Effective reports whether a transaction in this status counts toward the member's balance.
// Rows written before statuses existed carry no status and are treated as completed.
func (s TransactionStatus) Effective() bool {
	return s == COMPLETED || s == ""
}

// Valid reports whether s is one of the known statuses. The legacy empty status is not valid input.
func (s TransactionStatus) Valid() bool {
	switch s {
	case PENDING, COMPLETED, FAILED, CANCELLED:
		return true
	}
	return false
}

// TransactionType identifies the kind of monetary event a transaction records.
type TransactionType string

const (
	TourCardFee        TransactionType = "TourCardFee"
	Withdrawal         TransactionType = "Withdrawal"
	LeagueDonation     TransactionType = "LeagueDonation"
	CharityDonation    TransactionType = "CharityDonation"
	TournamentWinnings TransactionType = "TournamentWinnings"
	Deposit            TransactionType = "Deposit"
	Refund             TransactionType = "Refund"
	Payment            TransactionType = "Payment"
	Adjustment         TransactionType = "Adjustment"
)

// AllTransactionTypes returns every known transaction type.
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TourCardFee, Withdrawal, LeagueDonation, CharityDonation,
		TournamentWinnings, Deposit, Refund, Payment,
		Adjustment,
	}
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	for _, known := range AllTransactionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Role is a member's league role.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleRegular   Role = "regular"
)

// Member is the subset of a league member the ledger reads and mutates.
// Account is the authoritative running balance in cents.
type Member struct {
	Id         string    `json:"id" dynamodbav:"id"`
	ExternalId string    `json:"external_id,omitempty" dynamodbav:"external_id,omitempty"`
	Email      string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	FirstName  string    `json:"first_name,omitempty" dynamodbav:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty" dynamodbav:"last_name,omitempty"`
	Role       Role      `json:"role" dynamodbav:"role"`
	Account    int64     `json:"account" dynamodbav:"account"`
	Version    int64     `json:"version" dynamodbav:"version"`
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// DisplayName returns a human readable name for reports.
func (m *Member) DisplayName() string {
	switch {
	case m.FirstName != "" && m.LastName != "":
		return m.FirstName + " " + m.LastName
	case m.FirstName != "":
		return m.FirstName
	case m.Email != "":
		return m.Email
	}
	return m.Id
}

// Transaction is a single ledger record. Amount is already sign-normalized:
// debits are negative and credits positive.
type Transaction struct {
	Id              string            `json:"id" dynamodbav:"id"`
	MemberId        string            `json:"member_id,omitempty" dynamodbav:"member_id,omitempty"`
	SeasonId        string            `json:"season_id" dynamodbav:"season_id"`
	Amount          int64             `json:"amount" dynamodbav:"amount"`
	TransactionType TransactionType   `json:"transaction_type" dynamodbav:"transaction_type"`
	Status          TransactionStatus `json:"status,omitempty" dynamodbav:"status,omitempty"`
	ProcessedAt     *time.Time        `json:"processed_at,omitempty" dynamodbav:"processed_at,omitempty"`
	PayoutAddress   string            `json:"payout_address,omitempty" dynamodbav:"payout_address,omitempty"`
	ExternalUserId  string            `json:"external_user_id,omitempty" dynamodbav:"external_user_id,omitempty"`
	Description     string            `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Version         int64             `json:"version" dynamodbav:"version"`
	CreatedAt       time.Time         `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" dynamodbav:"updated_at"`
}

// EffectiveAmount is the amount this transaction currently contributes to the member balance.
func (t *Transaction) EffectiveAmount() int64 {
	if t.Status.Effective() {
		return t.Amount
	}
	return 0
}

// TournamentStatus is the lifecycle state of a tournament as reported by the season service.
type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

// Tournament is read-only season data used by the winnings audit.
type Tournament struct {
	Id        string           `json:"id" dynamodbav:"id"`
	SeasonId  string           `json:"season_id" dynamodbav:"season_id"`
	Name      string           `json:"name" dynamodbav:"name"`
	Status    TournamentStatus `json:"status" dynamodbav:"status"`
	StartDate time.Time        `json:"start_date" dynamodbav:"start_date"`
	EndDate   time.Time        `json:"end_date" dynamodbav:"end_date"`
}

// TourCard is a member's entry in a season.
type TourCard struct {
	Id          string `json:"id" dynamodbav:"id"`
	MemberId    string `json:"member_id" dynamodbav:"member_id"`
	SeasonId    string `json:"season_id" dynamodbav:"season_id"`
	DisplayName string `json:"display_name,omitempty" dynamodbav:"display_name,omitempty"`
	Version     int64  `json:"version" dynamodbav:"version"`
}

// Team is a tour card's entry in one tournament; Earnings are in cents.
type Team struct {
	Id           string `json:"id" dynamodbav:"id"`
	TournamentId string `json:"tournament_id" dynamodbav:"tournament_id"`
	TourCardId   string `json:"tour_card_id" dynamodbav:"tour_card_id"`
	Earnings     int64  `json:"earnings" dynamodbav:"earnings"`
}
