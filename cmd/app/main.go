package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/config"
	"github.com/chris/golf-league-ledger/pkg/handlers"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	mw "github.com/chris/golf-league-ledger/pkg/middleware"
	"github.com/chris/golf-league-ledger/pkg/scheduler"
	"github.com/chris/golf-league-ledger/pkg/storage"
	dydbstore "github.com/chris/golf-league-ledger/pkg/storage/dynamodb"
	"github.com/chris/golf-league-ledger/pkg/storage/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Only load the AWS config when something needs it so the memory backend runs offline.
	var awsCfg aws.Config
	if cfg.StorageBackend == config.BackendDynamoDB || cfg.SQSQueueURL != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
	}

	// Create our storage implementation
	var store storage.Storage
	switch cfg.StorageBackend {
	case config.BackendMemory:
		memStore := memory.New()
		if cfg.MemorySeedFile != "" {
			if err := seedMemoryStore(memStore, cfg.MemorySeedFile); err != nil {
				log.Fatalf("failed to seed memory store: %v", err)
			}
		}
		store = memStore
	default:
		store = dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.Tables)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := ledger.NewService(store, access.NewChecker(store),
		ledger.WithMetrics(ledger.NewMetrics(registry)),
		ledger.WithLogger(logger),
	)

	// Create our handler
	handler := handlers.NewApiHandler(svc, svc, svc)

	router := newRouter(routerDeps{
		API:            handler,
		Auth:           mw.NewJWTAuth([]byte(cfg.JWTSecret), cfg.JWTIssuer),
		HTTPMetrics:    mw.NewHTTPMetrics(registry),
		Gatherer:       registry,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AuditCron != "" {
		var publisher scheduler.Publisher = &scheduler.LogPublisher{Logger: logger}
		if cfg.SQSQueueURL != "" {
			publisher = scheduler.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
		}
		cron := scheduler.NewCron(logger)
		job := scheduler.NewAuditJob(svc, publisher, cfg.AuditSumMode, ledger.SystemClock, logger)
		if err := cron.ScheduleAudit(cfg.AuditCron, cfg.AuditTimeout, job); err != nil {
			log.Fatalf("failed to schedule audit: %v", err)
		}
		cron.Start()
		defer func() { <-cron.Stop().Done() }()
		logger.Info("scheduled account audit", slog.String("schedule", cfg.AuditCron))
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
		}
	}()

	logger.Info("starting server",
		slog.String("port", cfg.HTTPPort),
		slog.String("storage_backend", cfg.StorageBackend),
	)

	// Start the server
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
