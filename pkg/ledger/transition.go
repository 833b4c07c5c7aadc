package ledger

import (
	"time"

	"github.com/chris/golf-league-ledger/pkg/models"
)

// UpdatePatch lists the fields an admin update may change. Nil fields are left as they are.
type UpdatePatch struct {
	MemberID        *string
	Amount          *float64
	TransactionType *models.TransactionType
	Status          *models.TransactionStatus
	ProcessedAt     *time.Time
}

// BalanceDelta is a signed change to one member's account.
type BalanceDelta struct {
	MemberID string
	Delta    int64
}

// UpdatePlan is everything an update must write, computed before any write happens.
type UpdatePlan struct {
	Next          models.Transaction
	PrevEffective int64
	NextEffective int64
	MemberChanged bool
	Deltas        []BalanceDelta
}

// Members returns the members that must exist for the plan to apply.
func (p UpdatePlan) Members() []string {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if p.MemberChanged {
		add(p.Next.MemberId)
	}
	for _, d := range p.Deltas {
		add(d.MemberID)
	}
	return ids
}

// PlanUpdate applies patch to existing and derives the balance deltas.
//
// The stored amount is re-derived only when the amount or the type is patched. A transaction
// contributes its amount while its status is effective; the deltas move the difference between
// the previous and the next contribution. When the owning member changes, the previous
// contribution is reversed on the old member and the next one is applied to the new member.
func PlanUpdate(existing models.Transaction, patch UpdatePatch, now time.Time) (UpdatePlan, error) {
	next := existing

	if patch.MemberID != nil {
		if *patch.MemberID == "" {
			return UpdatePlan{}, invalid("memberId", "must not be empty")
		}
		next.MemberId = *patch.MemberID
	}
	if patch.TransactionType != nil {
		next.TransactionType = *patch.TransactionType
	}
	if patch.Amount != nil || patch.TransactionType != nil {
		var amount int64
		var err error
		if patch.Amount != nil {
			amount, err = SignedAmount(next.TransactionType, *patch.Amount)
		} else {
			amount, err = signMinorUnits(next.TransactionType, existing.Amount)
		}
		if err != nil {
			return UpdatePlan{}, err
		}
		next.Amount = amount
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return UpdatePlan{}, invalid("status", "must be one of pending, completed, failed, cancelled")
		}
		next.Status = *patch.Status
	}

	plan := UpdatePlan{
		PrevEffective: existing.EffectiveAmount(),
		NextEffective: next.EffectiveAmount(),
		MemberChanged: next.MemberId != existing.MemberId,
	}

	if plan.MemberChanged {
		if existing.MemberId != "" && plan.PrevEffective != 0 {
			plan.Deltas = append(plan.Deltas, BalanceDelta{MemberID: existing.MemberId, Delta: -plan.PrevEffective})
		}
		if plan.NextEffective != 0 {
			plan.Deltas = append(plan.Deltas, BalanceDelta{MemberID: next.MemberId, Delta: plan.NextEffective})
		}
	} else if net := plan.NextEffective - plan.PrevEffective; net != 0 && next.MemberId != "" {
		plan.Deltas = append(plan.Deltas, BalanceDelta{MemberID: next.MemberId, Delta: net})
	}

	switch {
	case patch.ProcessedAt != nil:
		processedAt := *patch.ProcessedAt
		next.ProcessedAt = &processedAt
	case !existing.Status.Effective() && next.Status.Effective():
		stamp := now
		next.ProcessedAt = &stamp
	}
	next.UpdatedAt = now

	plan.Next = next
	return plan, nil
}
