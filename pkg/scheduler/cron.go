package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron runs jobs on standard five-field cron schedules evaluated in UTC.
type Cron struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewCron creates a Cron. Overlapping runs of the same job are skipped and panics are recovered.
func NewCron(logger *slog.Logger) *Cron {
	cl := cronLogger{logger: logger}
	return &Cron{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// ScheduleAudit runs job on schedule. Each run gets its own timeout.
func (c *Cron) ScheduleAudit(schedule string, timeout time.Duration, job *AuditJob) error {
	_, err := c.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := job.Run(ctx); err != nil {
			c.logger.Error("scheduled account audit failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid audit schedule %q: %w", schedule, err)
	}
	return nil
}

func (c *Cron) Start() { c.cron.Start() }

// Stop halts the scheduler. The returned context is done once running jobs finish.
func (c *Cron) Stop() context.Context { return c.cron.Stop() }

// Entries reports how many jobs are scheduled.
func (c *Cron) Entries() int { return len(c.cron.Entries()) }

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
