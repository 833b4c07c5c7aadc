package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/golf-league-ledger/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables names the DynamoDB tables the store reads and writes.
type Tables struct {
	Members      string
	Transactions string
	Tournaments  string
	TourCards    string
	Teams        string
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	MembersTableName      string
	TransactionsTableName string
	TournamentsTableName  string
	TourCardsTableName    string
	TeamsTableName        string
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client:                client,
		MembersTableName:      tables.Members,
		TransactionsTableName: tables.Transactions,
		TournamentsTableName:  tables.Tournaments,
		TourCardsTableName:    tables.TourCards,
		TeamsTableName:        tables.Teams,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

const (
	memberExternalIDIndex  = "external_id-index"
	transactionMemberIndex = "member_id-season_id-index"
	transactionTypeIndex   = "transaction_type-index"
	transactionStatusIndex = "status-index"
	tournamentSeasonIndex  = "season_id-index"
	tourCardSeasonIndex    = "season_id-index"
	teamTournamentIndex    = "tournament_id-index"
)

// maxTransactWriteItems is the DynamoDB limit on items in one TransactWriteItems call.
const maxTransactWriteItems = 100

const conditionalCheckFailedCode = "ConditionalCheckFailed"
