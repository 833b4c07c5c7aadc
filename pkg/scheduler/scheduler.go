package scheduler

import (
	"context"
	"time"

	"github.com/chris/golf-league-ledger/pkg/ledger"
)

// AuditReport is the message emitted after a scheduled account audit.
type AuditReport struct {
	ReportID    string               `json:"reportId"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Audit       *ledger.AccountAudit `json:"audit"`
}

// Publisher defines the interface for a component that delivers audit reports to their consumers.
type Publisher interface {
	// PublishAuditReport hands the report off for asynchronous consumption.
	PublishAuditReport(ctx context.Context, report *AuditReport) error
}
