package dynamodb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// transactionQuery is the access path chosen for a filter: a GSI query when the filter names an
// indexed attribute, a scan otherwise. Filter fields not used by the key condition become a
// FilterExpression.
type transactionQuery struct {
	indexName  string
	keyCond    string
	filterExpr string
	names      map[string]string
	values     map[string]types.AttributeValue
}

func (q transactionQuery) scan() bool {
	return q.indexName == ""
}

func planTransactionQuery(filter storage.TransactionFilter) transactionQuery {
	q := transactionQuery{
		names:  map[string]string{},
		values: map[string]types.AttributeValue{},
	}
	var keyConds, filters []string

	memberKey := filter.MemberID != ""
	typeKey := !memberKey && filter.TransactionType != ""
	statusKey := !memberKey && !typeKey && filter.Status != "" && filter.Status != models.COMPLETED

	switch {
	case memberKey:
		q.indexName = transactionMemberIndex
	case typeKey:
		q.indexName = transactionTypeIndex
	case statusKey:
		q.indexName = transactionStatusIndex
	}

	if filter.MemberID != "" {
		q.values[":member_id"] = &types.AttributeValueMemberS{Value: filter.MemberID}
		keyConds = append(keyConds, "member_id = :member_id")
	}
	if filter.SeasonID != "" {
		q.values[":season_id"] = &types.AttributeValueMemberS{Value: filter.SeasonID}
		if memberKey {
			keyConds = append(keyConds, "season_id = :season_id")
		} else {
			filters = append(filters, "season_id = :season_id")
		}
	}
	if filter.TransactionType != "" {
		q.values[":transaction_type"] = &types.AttributeValueMemberS{Value: string(filter.TransactionType)}
		if typeKey {
			keyConds = append(keyConds, "transaction_type = :transaction_type")
		} else {
			filters = append(filters, "transaction_type = :transaction_type")
		}
	}
	if filter.Status != "" {
		q.names["#status"] = "status"
		q.values[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
		switch {
		case statusKey:
			keyConds = append(keyConds, "#status = :status")
		case filter.Status == models.COMPLETED:
			// Legacy rows carry no status and count as completed.
			filters = append(filters, "(#status = :status OR attribute_not_exists(#status))")
		default:
			filters = append(filters, "#status = :status")
		}
	}

	q.keyCond = strings.Join(keyConds, " AND ")
	q.filterExpr = strings.Join(filters, " AND ")
	return q
}

func (q transactionQuery) queryInput(table string) *dynamodb.QueryInput {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		IndexName:                 aws.String(q.indexName),
		KeyConditionExpression:    aws.String(q.keyCond),
		ExpressionAttributeValues: q.values,
	}
	if len(q.names) > 0 {
		input.ExpressionAttributeNames = q.names
	}
	if q.filterExpr != "" {
		input.FilterExpression = aws.String(q.filterExpr)
	}
	return input
}

func (q transactionQuery) scanInput(table string) *dynamodb.ScanInput {
	input := &dynamodb.ScanInput{TableName: aws.String(table)}
	if q.filterExpr != "" {
		input.FilterExpression = aws.String(q.filterExpr)
		input.ExpressionAttributeValues = q.values
	}
	if len(q.names) > 0 {
		input.ExpressionAttributeNames = q.names
	}
	return input
}

// ListTransactions retrieves every transaction matching the filter, ordered by creation time.
func (s *Store) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]models.Transaction, error) {
	q := planTransactionQuery(filter)

	var items []map[string]types.AttributeValue
	var err error
	if q.scan() {
		items, err = s.scanAll(ctx, q.scanInput(s.TransactionsTableName))
	} else {
		items, err = s.queryAll(ctx, q.queryInput(s.TransactionsTableName))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}
	sortTransactions(transactions)

	return transactions, nil
}

// ListTransactionsPage runs a single Query or Scan call starting from the cursor.
// Pages can be shorter than the limit when a FilterExpression drops items.
func (s *Store) ListTransactionsPage(ctx context.Context, filter storage.TransactionFilter, page storage.Page) (*storage.TransactionPage, error) {
	startKey, err := decodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}

	var limit *int32
	if page.Limit > 0 {
		limit = aws.Int32(page.Limit)
	}

	q := planTransactionQuery(filter)
	var items []map[string]types.AttributeValue
	var lek map[string]types.AttributeValue
	if q.scan() {
		input := q.scanInput(s.TransactionsTableName)
		input.Limit = limit
		input.ExclusiveStartKey = startKey
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transactions page: %w", err)
		}
		items, lek = result.Items, result.LastEvaluatedKey
	} else {
		input := q.queryInput(s.TransactionsTableName)
		input.Limit = limit
		input.ExclusiveStartKey = startKey
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query transactions page: %w", err)
		}
		items, lek = result.Items, result.LastEvaluatedKey
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	next, err := encodeCursor(lek)
	if err != nil {
		return nil, err
	}
	return &storage.TransactionPage{Transactions: transactions, NextCursor: next}, nil
}

// ListUnassignedTransactions scans for legacy rows with an external user reference and no member ID.
func (s *Store) ListUnassignedTransactions(ctx context.Context, limit int32) ([]models.Transaction, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.TransactionsTableName),
		FilterExpression: aws.String("attribute_not_exists(member_id) AND attribute_exists(external_user_id)"),
	}

	var transactions []models.Transaction
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unassigned transactions: %w", err)
		}
		var batch []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
		}
		transactions = append(transactions, batch...)
		if limit > 0 && int32(len(transactions)) >= limit {
			return transactions[:limit], nil
		}
		if len(result.LastEvaluatedKey) == 0 {
			return transactions, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

func sortTransactions(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		}
		return txs[i].Id < txs[j].Id
	})
}

// encodeCursor turns a LastEvaluatedKey into an opaque cursor.
// Every key attribute of the transactions table and its indexes is a string.
func encodeCursor(lek map[string]types.AttributeValue) (string, error) {
	if len(lek) == 0 {
		return "", nil
	}
	key := make(map[string]string, len(lek))
	if err := attributevalue.UnmarshalMap(lek, &key); err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var key map[string]string
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	startKey, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	return startKey, nil
}
