package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// WithdrawalAndDonationsInput is a combined self-service submission. Every part is optional,
// but at least one must be present. A withdrawal needs a payout address.
type WithdrawalAndDonationsInput struct {
	SeasonID        string
	PayoutAddress   string
	Withdrawal      *AmountInput
	LeagueDonation  *AmountInput
	CharityDonation *AmountInput
}

// SubmissionResult is what a combined submission created and the balance right after it.
type SubmissionResult struct {
	Created []models.Transaction
	BalanceSummary
}

// selfServicePart is one transaction of a self-service submission.
type selfServicePart struct {
	transactionType models.TransactionType
	cents           int64
	payoutAddress   string
	description     string
}

func (p selfServicePart) status() models.TransactionStatus {
	if p.transactionType == models.Withdrawal {
		return models.PENDING
	}
	return models.COMPLETED
}

func donationPart(t models.TransactionType, amount AmountInput) (selfServicePart, error) {
	var description string
	switch t {
	case models.LeagueDonation:
		description = "League donation"
	case models.CharityDonation:
		description = "Charity donation"
	default:
		return selfServicePart{}, invalid("donationType", "must be LeagueDonation or CharityDonation")
	}
	cents, err := ParseMinorUnits(amount)
	if err != nil {
		return selfServicePart{}, err
	}
	return selfServicePart{transactionType: t, cents: cents, description: description}, nil
}

func withdrawalPart(payoutAddress string, amount AmountInput) (selfServicePart, error) {
	payoutAddress = strings.TrimSpace(payoutAddress)
	if payoutAddress == "" {
		return selfServicePart{}, invalid("payoutAddress", "is required for a withdrawal")
	}
	cents, err := ParseMinorUnits(amount)
	if err != nil {
		return selfServicePart{}, err
	}
	return selfServicePart{
		transactionType: models.Withdrawal,
		cents:           cents,
		payoutAddress:   payoutAddress,
		description:     "Withdrawal request",
	}, nil
}

// CreateDonation posts a completed donation from the caller's account.
func (s *Service) CreateDonation(ctx context.Context, seasonID string, donationType models.TransactionType, amount AmountInput) (txn *models.Transaction, err error) {
	defer func() { s.metrics.observe("create_donation", err) }()

	caller, err := s.authz.Caller(ctx)
	if err != nil {
		return nil, err
	}
	part, err := donationPart(donationType, amount)
	if err != nil {
		return nil, err
	}
	result, err := s.submit(ctx, caller.MemberID, seasonID, []selfServicePart{part})
	if err != nil {
		return nil, err
	}
	return &result.Created[0], nil
}

// CreateWithdrawalRequest records a pending withdrawal. The account is debited only when an admin
// later completes it, but the amount counts against the available balance immediately.
func (s *Service) CreateWithdrawalRequest(ctx context.Context, seasonID, payoutAddress string, amount AmountInput) (txn *models.Transaction, err error) {
	defer func() { s.metrics.observe("create_withdrawal_request", err) }()

	caller, err := s.authz.Caller(ctx)
	if err != nil {
		return nil, err
	}
	part, err := withdrawalPart(payoutAddress, amount)
	if err != nil {
		return nil, err
	}
	result, err := s.submit(ctx, caller.MemberID, seasonID, []selfServicePart{part})
	if err != nil {
		return nil, err
	}
	return &result.Created[0], nil
}

// CreateWithdrawalAndDonations validates every part jointly against the available balance and
// then writes them in one unit of work.
func (s *Service) CreateWithdrawalAndDonations(ctx context.Context, in WithdrawalAndDonationsInput) (result *SubmissionResult, err error) {
	defer func() { s.metrics.observe("create_withdrawal_and_donations", err) }()

	caller, err := s.authz.Caller(ctx)
	if err != nil {
		return nil, err
	}

	var parts []selfServicePart
	if in.Withdrawal != nil && in.Withdrawal.IsSet() {
		part, err := withdrawalPart(in.PayoutAddress, *in.Withdrawal)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if in.LeagueDonation != nil && in.LeagueDonation.IsSet() {
		part, err := donationPart(models.LeagueDonation, *in.LeagueDonation)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if in.CharityDonation != nil && in.CharityDonation.IsSet() {
		part, err := donationPart(models.CharityDonation, *in.CharityDonation)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, invalid("request", "a withdrawal or a donation is required")
	}

	return s.submit(ctx, caller.MemberID, in.SeasonID, parts)
}

// GetMyBalanceSummary reports the caller's account, pending withdrawals and available balance.
func (s *Service) GetMyBalanceSummary(ctx context.Context) (*BalanceSummary, error) {
	caller, err := s.authz.Caller(ctx)
	if err != nil {
		return nil, err
	}
	var summary BalanceSummary
	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		summary, err = loadBalanceSummary(ctx, tx, caller.MemberID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// submit writes the parts for memberID after checking their combined debit against the available
// balance. The member is locked so concurrent submissions for the same member serialize.
func (s *Service) submit(ctx context.Context, memberID, seasonID string, parts []selfServicePart) (*SubmissionResult, error) {
	if strings.TrimSpace(seasonID) == "" {
		return nil, invalid("seasonId", "is required")
	}

	signed := make([]int64, len(parts))
	var proposed int64
	for i, p := range parts {
		amount, err := signMinorUnits(p.transactionType, p.cents)
		if err != nil {
			return nil, err
		}
		signed[i] = amount
		var ok bool
		if proposed, ok = storage.AddCents(proposed, amount); !ok {
			return nil, invalid("amount", "combined amount is out of range")
		}
	}

	now := s.clock.Now()
	result := &SubmissionResult{}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		result.Created = nil
		if err := tx.LockMember(ctx, memberID); err != nil {
			return fmt.Errorf("failed to lock member: %w", err)
		}
		summary, err := loadBalanceSummary(ctx, tx, memberID)
		if err != nil {
			return err
		}
		if err := CheckDebit(memberID, summary, proposed); err != nil {
			return err
		}

		for i, p := range parts {
			status := p.status()
			txn := models.Transaction{
				Id:              s.newID(),
				MemberId:        memberID,
				SeasonId:        seasonID,
				Amount:          signed[i],
				TransactionType: p.transactionType,
				Status:          status,
				PayoutAddress:   p.payoutAddress,
				Description:     p.description,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if status == models.COMPLETED {
				txn.ProcessedAt = &now
			}
			if err := tx.PutTransaction(ctx, &txn); err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
			if status == models.COMPLETED {
				if err := tx.AdjustMemberAccount(ctx, memberID, txn.Amount, now); err != nil {
					return fmt.Errorf("failed to apply transaction to member account: %w", err)
				}
				summary.AccountCents += txn.Amount
			} else {
				summary.PendingWithdrawalCents += txn.Amount
			}
			result.Created = append(result.Created, txn)
		}
		summary.AvailableCents = summary.AccountCents + summary.PendingWithdrawalCents
		result.BalanceSummary = summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, txn := range result.Created {
		if txn.Status == models.COMPLETED {
			s.metrics.balanceMutation(txn.Amount)
		}
		s.logger.InfoContext(ctx, "self-service transaction created",
			"transaction_id", txn.Id,
			"member_id", memberID,
			"type", txn.TransactionType,
			"amount", txn.Amount,
			"status", txn.Status,
		)
	}
	return result, nil
}
