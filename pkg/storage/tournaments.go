package storage

import (
	"context"

	"github.com/chris/golf-league-ledger/pkg/models"
)

// TournamentReader defines read access to the season data owned by the tournament service.
// The ledger never writes these records outside of a member merge.
type TournamentReader interface {
	ListTournamentsBySeason(ctx context.Context, seasonID string) ([]models.Tournament, error)
	ListTourCardsBySeason(ctx context.Context, seasonID string) ([]models.TourCard, error)
	ListTeamsByTournament(ctx context.Context, tournamentID string) ([]models.Team, error)
}
