package scheduler

import (
	"context"
	"log/slog"
)

// LogPublisher writes a summary of each report to a logger. It is used when no queue is configured.
type LogPublisher struct {
	Logger *slog.Logger
}

var _ Publisher = (*LogPublisher)(nil)

func (p *LogPublisher) PublishAuditReport(ctx context.Context, report *AuditReport) error {
	attrs := []any{slog.String("report_id", report.ReportID)}
	if a := report.Audit; a != nil {
		attrs = append(attrs,
			slog.String("sum_mode", string(a.SumMode)),
			slog.Int("members", a.MemberCount),
			slog.Int("mismatches", len(a.Mismatches)),
			slog.Int("orphaned_transactions", a.OrphanedTransactions),
		)
	}
	p.Logger.InfoContext(ctx, "account audit report", attrs...)
	return nil
}
