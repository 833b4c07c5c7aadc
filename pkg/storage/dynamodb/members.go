package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// GetMember retrieves a member from DynamoDB by ID.
func (s *Store) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": memberID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal member ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.MembersTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get member from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.MemberNotFound(memberID)
	}

	var member models.Member
	if err := attributevalue.UnmarshalMap(result.Item, &member); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member: %w", err)
	}

	return &member, nil
}

// GetMemberByExternalID resolves an identity-provider reference through the external_id index.
func (s *Store) GetMemberByExternalID(ctx context.Context, externalID string) (*models.Member, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.MembersTableName),
		IndexName:              aws.String(memberExternalIDIndex),
		KeyConditionExpression: aws.String("external_id = :external_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":external_id": &types.AttributeValueMemberS{Value: externalID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query member by external ID: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, &storage.NotFoundError{Entity: "member", ID: externalID}
	}

	var member models.Member
	if err := attributevalue.UnmarshalMap(result.Items[0], &member); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member: %w", err)
	}

	return &member, nil
}

// ListMembers scans the members table.
func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	items, err := s.scanAll(ctx, &dynamodb.ScanInput{TableName: aws.String(s.MembersTableName)})
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}

	var members []models.Member
	if err := attributevalue.UnmarshalListOfMaps(items, &members); err != nil {
		return nil, fmt.Errorf("failed to unmarshal members: %w", err)
	}

	return members, nil
}

// scanAll follows LastEvaluatedKey until the scan is exhausted.
func (s *Store) scanAll(ctx context.Context, input *dynamodb.ScanInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, result.Items...)
		if len(result.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// queryAll follows LastEvaluatedKey until the query is exhausted.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, result.Items...)
		if len(result.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}
