// Package schedule runs periodic commands from cron expressions.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"staycal/internal/app/bus"
)

// Job pairs a cron spec with the command it dispatches.
type Job struct {
	Name    string
	Spec    string
	Command bus.Command
	Timeout time.Duration
}

// Runner dispatches jobs through the command bus so they pass the same
// middleware as user commands. Overlapping runs of one job are skipped.
type Runner struct {
	cron   *cron.Cron
	bus    bus.CommandBus
	logger *slog.Logger
}

func NewRunner(commands bus.CommandBus, logger *slog.Logger) *Runner {
	return &Runner{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		bus:    commands,
		logger: logger,
	}
}

func (r *Runner) Add(ctx context.Context, job Job) error {
	if job.Command == nil {
		return fmt.Errorf("schedule: job %q has no command", job.Name)
	}
	_, err := r.cron.AddFunc(job.Spec, func() { r.run(ctx, job) })
	if err != nil {
		return fmt.Errorf("schedule: job %q: %w", job.Name, err)
	}
	if r.logger != nil {
		r.logger.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	}
	return nil
}

func (r *Runner) run(ctx context.Context, job Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := r.bus.Dispatch(ctx, job.Command); err != nil && r.logger != nil {
		r.logger.Error("scheduled job failed", "job", job.Name, "error", err)
	}
}

// Start runs the scheduler until ctx is done, then waits for running jobs.
func (r *Runner) Start(ctx context.Context) {
	r.cron.Start()
	go func() {
		<-ctx.Done()
		<-r.cron.Stop().Done()
	}()
}

// RunNow dispatches a job immediately, outside the schedule.
func (r *Runner) RunNow(ctx context.Context, job Job) {
	r.run(ctx, job)
}
