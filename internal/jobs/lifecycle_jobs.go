package jobs

import (
	"context"
	"time"

	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/config"
	"go.uber.org/zap"
)

const (
	SLAMonitorJobName      = "sla_monitor"
	ReviewAdvanceJobName   = "review_advance"
	EventRedeliveryJobName = "event_redelivery"
)

// DefaultJobTimeout bounds a single run when no timeout is configured
const DefaultJobTimeout = 2 * time.Minute

// SLAScanner flags work orders whose SLA deadline has passed
type SLAScanner interface {
	Scan(ctx context.Context) (int, error)
}

// ReviewAdvancer opens review on orders whose quiet period has elapsed
type ReviewAdvancer interface {
	Enabled() bool
	Advance(ctx context.Context) (int, error)
}

// OutboxDispatcher retries event deliveries
type OutboxDispatcher interface {
	DispatchPending(ctx context.Context) (int, error)
}

// Job runs one unit of background work under the system actor
type Job struct {
	name    string
	run     func(ctx context.Context) (int, error)
	logger  *zap.Logger
	timeout time.Duration
}

func NewJob(name string, run func(ctx context.Context) (int, error), logger *zap.Logger, timeout time.Duration) *Job {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &Job{name: name, run: run, logger: logger, timeout: timeout}
}

// Run executes the job. It is called by the scheduler according to the cron expression.
func (j *Job) Run() {
	ctx, cancel := context.WithTimeout(auth.WithSystemContext(context.Background()), j.timeout)
	defer cancel()

	start := time.Now()
	affected, err := j.run(ctx)
	if err != nil {
		j.logger.Error("scheduled job failed",
			zap.String("job_name", j.name),
			zap.Int("affected", affected),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	if affected > 0 {
		j.logger.Info("scheduled job completed",
			zap.String("job_name", j.name),
			zap.Int("affected", affected),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterLifecycleJobs registers the SLA monitor, review advancement and event redelivery.
// The SLA monitor also scans once in the background on startup so breaches missed while
// the service was down surface right away.
func RegisterLifecycleJobs(scheduler *Scheduler, cfg *config.Config, monitor SLAScanner, advancer ReviewAdvancer, dispatcher OutboxDispatcher, logger *zap.Logger, runStartupScan bool) error {
	timeout := cfg.SLA.ScanTimeoutDuration()

	if cfg.SLA.Enabled {
		job := NewJob(SLAMonitorJobName, monitor.Scan, logger, timeout)
		if err := scheduler.AddJob(SLAMonitorJobName, cfg.SLA.MonitorCron, job.Run); err != nil {
			return err
		}
		if runStartupScan {
			go job.Run()
		}
	} else {
		logger.Info("SLA monitor disabled")
	}

	if advancer.Enabled() {
		job := NewJob(ReviewAdvanceJobName, advancer.Advance, logger, timeout)
		if err := scheduler.AddJob(ReviewAdvanceJobName, cfg.Lifecycle.ReviewCron, job.Run); err != nil {
			return err
		}
	}

	job := NewJob(EventRedeliveryJobName, dispatcher.DispatchPending, logger, timeout)
	return scheduler.AddJob(EventRedeliveryJobName, cfg.Events.RedeliveryCron, job.Run)
}
