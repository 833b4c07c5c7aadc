package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/chris/golf-league-ledger/pkg/storage/dynamodb"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config is the process configuration shared by the API server and the lambdas.
type Config struct {
	HTTPPort       string
	LogLevel       slog.Level
	StorageBackend string
	Tables         dynamodb.Tables
	// MemorySeedFile optionally seeds the memory backend from a JSON fixture.
	MemorySeedFile string

	JWTSecret string
	JWTIssuer string

	SQSQueueURL string

	AuditCron    string
	AuditSumMode ledger.SumMode
	AuditTimeout time.Duration

	CORSAllowedOrigins []string
}

// Load reads .env (when present) and the environment into a Config. Environment variables win over
// .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("storage_backend", BackendDynamoDB)
	v.SetDefault("audit_sum_mode", string(ledger.SumCompleted))
	v.SetDefault("audit_timeout", "5m")
	v.SetDefault("cors_allowed_origins", "*")

	_ = v.BindEnv("tables.members", "DYNAMODB_MEMBERS_TABLE_NAME")
	_ = v.BindEnv("tables.transactions", "DYNAMODB_TRANSACTIONS_TABLE_NAME")
	_ = v.BindEnv("tables.tournaments", "DYNAMODB_TOURNAMENTS_TABLE_NAME")
	_ = v.BindEnv("tables.tour_cards", "DYNAMODB_TOUR_CARDS_TABLE_NAME")
	_ = v.BindEnv("tables.teams", "DYNAMODB_TEAMS_TABLE_NAME")
	return v
}

// FromViper builds a Config from v and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPPort:       v.GetString("http_port"),
		StorageBackend: strings.ToLower(v.GetString("storage_backend")),
		Tables: dynamodb.Tables{
			Members:      v.GetString("tables.members"),
			Transactions: v.GetString("tables.transactions"),
			Tournaments:  v.GetString("tables.tournaments"),
			TourCards:    v.GetString("tables.tour_cards"),
			Teams:        v.GetString("tables.teams"),
		},
		MemorySeedFile:     v.GetString("memory_seed_file"),
		JWTSecret:          v.GetString("jwt_secret"),
		JWTIssuer:          v.GetString("jwt_issuer"),
		SQSQueueURL:        v.GetString("sqs_queue_url"),
		AuditCron:          v.GetString("audit_cron"),
		AuditTimeout:       v.GetDuration("audit_timeout"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	mode, err := ledger.ParseSumMode(v.GetString("audit_sum_mode"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_SUM_MODE: %w", err)
	}
	cfg.AuditSumMode = mode

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.StorageBackend {
	case BackendMemory:
	case BackendDynamoDB:
		if err := c.RequireTables(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if c.AuditTimeout <= 0 {
		errs = append(errs, errors.New("AUDIT_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// RequireTables fails unless every DynamoDB table name is set.
func (c *Config) RequireTables() error {
	var missing []string
	for env, name := range map[string]string{
		"DYNAMODB_MEMBERS_TABLE_NAME":      c.Tables.Members,
		"DYNAMODB_TRANSACTIONS_TABLE_NAME": c.Tables.Transactions,
		"DYNAMODB_TOURNAMENTS_TABLE_NAME":  c.Tables.Tournaments,
		"DYNAMODB_TOUR_CARDS_TABLE_NAME":   c.Tables.TourCards,
		"DYNAMODB_TEAMS_TABLE_NAME":        c.Tables.Teams,
	} {
		if name == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("missing DynamoDB table names: %s", strings.Join(missing, ", "))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
