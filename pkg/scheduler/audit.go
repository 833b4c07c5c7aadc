package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/oklog/ulid/v2"
)

// AuditJob runs the account audit as the system caller and publishes the result.
type AuditJob struct {
	admin     ledger.AdminService
	publisher Publisher
	mode      ledger.SumMode
	clock     ledger.Clock
	entropy   io.Reader
	logger    *slog.Logger
}

// NewAuditJob creates an AuditJob. An empty mode audits completed transactions.
func NewAuditJob(admin ledger.AdminService, publisher Publisher, mode ledger.SumMode, clock ledger.Clock, logger *slog.Logger) *AuditJob {
	if mode == "" {
		mode = ledger.SumCompleted
	}
	if clock == nil {
		clock = ledger.SystemClock
	}
	return &AuditJob{
		admin:     admin,
		publisher: publisher,
		mode:      mode,
		clock:     clock,
		entropy:   ulid.DefaultEntropy(),
		logger:    logger,
	}
}

// Run performs one audit and returns the published report.
func (j *AuditJob) Run(ctx context.Context) (*AuditReport, error) {
	now := j.clock.Now()
	reportID, err := ulid.New(ulid.Timestamp(now), j.entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report id: %w", err)
	}

	audit, err := j.admin.AdminGetMemberAccountAudit(access.WithSystemCaller(ctx), j.mode)
	if err != nil {
		return nil, fmt.Errorf("account audit failed: %w", err)
	}

	report := &AuditReport{
		ReportID:    reportID.String(),
		GeneratedAt: now.UTC().Truncate(time.Second),
		Audit:       audit,
	}
	if err := j.publisher.PublishAuditReport(ctx, report); err != nil {
		return nil, err
	}

	j.logger.InfoContext(ctx, "account audit completed",
		slog.String("report_id", report.ReportID),
		slog.Int("mismatches", len(audit.Mismatches)),
	)
	return report, nil
}
