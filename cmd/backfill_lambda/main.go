package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/config"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	dydbstore "github.com/chris/golf-league-ledger/pkg/storage/dynamodb"
)

// backfillMessage is the body of a backfill request on the queue. A zero limit uses the ledger default.
type backfillMessage struct {
	Limit int32 `json:"limit"`
}

var admin ledger.AdminService

// setup wires the ledger from the environment.
func setup() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.RequireTables(); err != nil {
		log.Fatal(err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.Tables)
	admin = ledger.NewService(store, access.NewChecker(store))
}

// HandleRequest runs one member-id backfill per SQS message.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	return handleEvent(access.WithSystemCaller(ctx), admin, sqsEvent)
}

func handleEvent(ctx context.Context, svc ledger.AdminService, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		var msg backfillMessage
		if message.Body != "" {
			if err := json.Unmarshal([]byte(message.Body), &msg); err != nil {
				// Malformed bodies are never retried.
				slog.ErrorContext(ctx, "dropping malformed backfill message",
					slog.String("message_id", message.MessageId), slog.Any("error", err))
				continue
			}
		}

		result, err := svc.AdminBackfillTransactionMemberIDs(ctx, msg.Limit)
		if err != nil {
			// Returning an error will cause SQS to retry the message.
			return fmt.Errorf("backfill for message %s failed: %w", message.MessageId, err)
		}

		slog.InfoContext(ctx, "backfill completed",
			slog.String("message_id", message.MessageId),
			slog.Int("scanned", result.Scanned),
			slog.Int("updated", result.Updated),
			slog.Int("unmatched", result.Unmatched),
		)
	}
	return nil
}

func main() {
	setup()
	lambda.Start(HandleRequest)
}
