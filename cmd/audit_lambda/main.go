package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/config"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/scheduler"
	dydbstore "github.com/chris/golf-league-ledger/pkg/storage/dynamodb"
)

var job *scheduler.AuditJob

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.SQSQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	if err := cfg.RequireTables(); err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.Tables)
	svc := ledger.NewService(store, access.NewChecker(store), ledger.WithLogger(logger))
	publisher := scheduler.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)

	job = scheduler.NewAuditJob(svc, publisher, cfg.AuditSumMode, ledger.SystemClock, logger)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) (*scheduler.AuditReport, error) {
	report, err := job.Run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "account audit failed", slog.Any("error", err))
		return nil, err
	}
	return report, nil
}

func main() {
	lambda.Start(HandleRequest)
}
