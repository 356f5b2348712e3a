// Package scheduler triggers distribution runs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/robfig/cron/v3"
)

// Operator is the name scheduled runs are recorded under.
const Operator = "scheduler"

// Distributor runs one distribution.
type Distributor interface {
	Run(ctx context.Context) (distribution.RunSummary, error)
}

// AfterRun is called after every run that committed teams.
type AfterRun func(ctx context.Context, summary distribution.RunSummary)

// Options configures a Scheduler.
type Options struct {
	// Spec is a cron expression; the leading seconds field is optional.
	Spec string
	// Timeout bounds a single run including AfterRun. Zero means 10 minutes.
	Timeout  time.Duration
	AfterRun AfterRun
}

// Scheduler owns a cron instance with a single distribution job.
type Scheduler struct {
	cron     *cron.Cron
	dist     Distributor
	afterRun AfterRun
	timeout  time.Duration
	logger   *slog.Logger
}

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Scheduler. It does not start it.
func New(dist Distributor, opts Options, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	s := &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		dist:     dist,
		afterRun: opts.AfterRun,
		timeout:  opts.Timeout,
		logger:   logger,
	}
	if _, err := s.cron.AddFunc(opts.Spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", opts.Spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("distribution scheduler started", "next_run", e.Next)
	}
}

// Stop halts the schedule and waits for a run in progress, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunOnce(activity.ContextWithOperator(ctx, Operator))
}

// RunOnce performs one scheduled run. Errors are logged, never returned:
// a run rejected because another one holds the lock is expected.
func (s *Scheduler) RunOnce(ctx context.Context) {
	summary, err := s.dist.Run(ctx)
	switch {
	case errors.Is(err, distribution.ErrRunInProgress):
		s.logger.Warn("scheduled distribution skipped", "reason", err)
		return
	case err != nil:
		s.logger.Error("scheduled distribution failed", "error", err)
		return
	}

	s.logger.Info("scheduled distribution finished", "run_id", summary.RunID,
		"teams", len(summary.Teams), "unassigned", len(summary.Unassigned))
	if s.afterRun != nil && summary.RunID != "" {
		s.afterRun(ctx, summary)
	}
}
