package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/golf-league-ledger/pkg/models"
)

func (s *Store) ListTournamentsBySeason(ctx context.Context, seasonID string) ([]models.Tournament, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TournamentsTableName),
		IndexName:              aws.String(tournamentSeasonIndex),
		KeyConditionExpression: aws.String("season_id = :season_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":season_id": &types.AttributeValueMemberS{Value: seasonID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments by season: %w", err)
	}

	var tournaments []models.Tournament
	if err := attributevalue.UnmarshalListOfMaps(items, &tournaments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournaments: %w", err)
	}
	sort.Slice(tournaments, func(i, j int) bool {
		if !tournaments[i].StartDate.Equal(tournaments[j].StartDate) {
			return tournaments[i].StartDate.Before(tournaments[j].StartDate)
		}
		return tournaments[i].Id < tournaments[j].Id
	})

	return tournaments, nil
}

func (s *Store) ListTourCardsBySeason(ctx context.Context, seasonID string) ([]models.TourCard, error) {
	return s.queryTourCards(ctx, tourCardSeasonIndex, "season_id", seasonID)
}

func (s *Store) queryTourCards(ctx context.Context, index, attr, value string) ([]models.TourCard, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TourCardsTableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(attr + " = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query tour cards by %s: %w", attr, err)
	}

	var cards []models.TourCard
	if err := attributevalue.UnmarshalListOfMaps(items, &cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tour cards: %w", err)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Id < cards[j].Id })

	return cards, nil
}

func (s *Store) ListTeamsByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TeamsTableName),
		IndexName:              aws.String(teamTournamentIndex),
		KeyConditionExpression: aws.String("tournament_id = :tournament_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tournament_id": &types.AttributeValueMemberS{Value: tournamentID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query teams by tournament: %w", err)
	}

	var teams []models.Team
	if err := attributevalue.UnmarshalListOfMaps(items, &teams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal teams: %w", err)
	}

	return teams, nil
}
