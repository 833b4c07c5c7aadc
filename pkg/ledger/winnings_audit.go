package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// TournamentEarnings is one tournament's contribution to a member's expected winnings.
type TournamentEarnings struct {
	TournamentID   string `json:"tournamentId"`
	TournamentName string `json:"tournamentName"`
	EarningsCents  int64  `json:"earningsCents"`
}

// WinningsMismatch is a member whose recorded winnings differ from their teams' earnings.
type WinningsMismatch struct {
	MemberID      string               `json:"memberId"`
	DisplayName   string               `json:"displayName"`
	ExpectedCents int64                `json:"expectedCents"`
	RecordedCents int64                `json:"recordedCents"`
	DeltaCents    int64                `json:"deltaCents"`
	Tournaments   []TournamentEarnings `json:"tournaments"`
	Transactions  []models.Transaction `json:"transactions"`
}

// TournamentSummary describes one tournament of the audited season.
type TournamentSummary struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Status        models.TournamentStatus `json:"status"`
	TeamCount     int                     `json:"teamCount"`
	EarningsCents int64                   `json:"earningsCents"`
}

// WinningsAudit compares team earnings with TournamentWinnings transactions for one season.
type WinningsAudit struct {
	SeasonID    string              `json:"seasonId"`
	Mismatches  []WinningsMismatch  `json:"mismatches"`
	Tournaments []TournamentSummary `json:"tournaments"`
}

// WinningsInput is the season data a winnings reconciliation runs over.
type WinningsInput struct {
	SeasonID    string
	Tournaments []models.Tournament
	TourCards   []models.TourCard
	Teams       map[string][]models.Team
	Winnings    []models.Transaction
	Members     map[string]models.Member
}

// ReconcileWinnings derives each member's expected winnings from team earnings in completed
// tournaments and compares them with the effective TournamentWinnings recorded in the season.
func ReconcileWinnings(in WinningsInput) *WinningsAudit {
	audit := &WinningsAudit{
		SeasonID:    in.SeasonID,
		Mismatches:  []WinningsMismatch{},
		Tournaments: []TournamentSummary{},
	}

	cardOwner := make(map[string]string, len(in.TourCards))
	for _, c := range in.TourCards {
		cardOwner[c.Id] = c.MemberId
	}

	expected := map[string]int64{}
	breakdown := map[string][]TournamentEarnings{}
	for _, t := range in.Tournaments {
		summary := TournamentSummary{ID: t.Id, Name: t.Name, Status: t.Status}
		perMember := map[string]int64{}
		for _, team := range in.Teams[t.Id] {
			summary.TeamCount++
			summary.EarningsCents += team.Earnings
			if owner, ok := cardOwner[team.TourCardId]; ok && owner != "" {
				perMember[owner] += team.Earnings
			}
		}
		audit.Tournaments = append(audit.Tournaments, summary)

		if t.Status != models.TournamentCompleted {
			continue
		}
		for _, memberID := range sortedMemberIDs(perMember) {
			expected[memberID] += perMember[memberID]
			breakdown[memberID] = append(breakdown[memberID], TournamentEarnings{
				TournamentID:   t.Id,
				TournamentName: t.Name,
				EarningsCents:  perMember[memberID],
			})
		}
	}

	recorded := map[string]int64{}
	winnings := map[string][]models.Transaction{}
	for _, tx := range in.Winnings {
		if tx.MemberId == "" || tx.TransactionType != models.TournamentWinnings {
			continue
		}
		winnings[tx.MemberId] = append(winnings[tx.MemberId], tx)
		recorded[tx.MemberId] += tx.EffectiveAmount()
	}

	candidates := map[string]int64{}
	for id := range expected {
		candidates[id] = 0
	}
	for id := range recorded {
		candidates[id] = 0
	}
	for _, memberID := range sortedMemberIDs(candidates) {
		if expected[memberID] == recorded[memberID] {
			continue
		}
		mismatch := WinningsMismatch{
			MemberID:      memberID,
			DisplayName:   memberID,
			ExpectedCents: expected[memberID],
			RecordedCents: recorded[memberID],
			DeltaCents:    recorded[memberID] - expected[memberID],
			Tournaments:   breakdown[memberID],
			Transactions:  winnings[memberID],
		}
		if m, ok := in.Members[memberID]; ok {
			mismatch.DisplayName = m.DisplayName()
		}
		if mismatch.Tournaments == nil {
			mismatch.Tournaments = []TournamentEarnings{}
		}
		if mismatch.Transactions == nil {
			mismatch.Transactions = []models.Transaction{}
		}
		audit.Mismatches = append(audit.Mismatches, mismatch)
	}

	sort.SliceStable(audit.Mismatches, func(i, j int) bool {
		return abs(audit.Mismatches[i].DeltaCents) > abs(audit.Mismatches[j].DeltaCents)
	})
	return audit
}

func sortedMemberIDs(m map[string]int64) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AdminGetTournamentWinningsAudit reconciles tournament winnings for a season. It never writes.
func (s *Service) AdminGetTournamentWinningsAudit(ctx context.Context, seasonID string) (audit *WinningsAudit, err error) {
	defer func() { s.metrics.observe("tournament_winnings_audit", err) }()

	if _, err := s.authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if seasonID == "" {
		return nil, invalid("seasonId", "is required")
	}

	in := WinningsInput{SeasonID: seasonID, Teams: map[string][]models.Team{}, Members: map[string]models.Member{}}
	if in.Tournaments, err = s.store.ListTournamentsBySeason(ctx, seasonID); err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for _, t := range in.Tournaments {
		teams, err := s.store.ListTeamsByTournament(ctx, t.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams for tournament %s: %w", t.Id, err)
		}
		in.Teams[t.Id] = teams
	}
	if in.TourCards, err = s.store.ListTourCardsBySeason(ctx, seasonID); err != nil {
		return nil, fmt.Errorf("failed to list tour cards: %w", err)
	}
	in.Winnings, err = s.store.ListTransactions(ctx, storage.TransactionFilter{
		SeasonID:        seasonID,
		TransactionType: models.TournamentWinnings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list winnings transactions: %w", err)
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	for _, m := range members {
		in.Members[m.Id] = m
	}

	audit = ReconcileWinnings(in)
	s.metrics.SetAuditMismatches("winnings", len(audit.Mismatches))
	return audit, nil
}
