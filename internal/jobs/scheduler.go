// Package jobs runs the lifecycle's background work on cron schedules: the SLA
// monitor, quiet-period review advancement and outbox redelivery.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// parser accepts standard 5-field expressions, an optional leading seconds field and descriptors
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ScheduledJob describes a registered job
type ScheduledJob struct {
	Name    string
	Expr    string
	NextRun time.Time
}

type entry struct {
	id   cron.EntryID
	expr string
}

// Scheduler runs named jobs on cron expressions. A job still running when its
// next tick fires is skipped, and a panicking job is recovered and logged.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	entries map[string]entry
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	cronLogger := zapCronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cronLogger),
			cron.WithChain(
				cron.SkipIfStillRunning(cronLogger),
				cron.Recover(cronLogger),
			),
		),
		logger:  logger,
		entries: make(map[string]entry),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, job := range s.Jobs() {
		s.logger.Info("job scheduled",
			zap.String("job_name", job.Name),
			zap.String("cron_expr", job.Expr),
			zap.Time("next_run", job.NextRun))
	}
}

// Stop halts the schedule. The returned context is done once running jobs complete.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers fn under a unique name. Accepted expressions include
// "*/30 * * * * *" (seconds field), "*/5 * * * *" and "@every 1m".
func (s *Scheduler) AddJob(name, expr string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("job %s already exists", name)
	}

	id, err := s.cron.AddFunc(expr, func() {
		s.logger.Debug("running scheduled job", zap.String("job_name", name))
		fn()
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", expr, name, err)
	}
	s.entries[name] = entry{id: id, expr: expr}
	return nil
}

// Jobs lists the registered jobs by name. NextRun is zero until the scheduler starts.
func (s *Scheduler) Jobs() []ScheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]ScheduledJob, 0, len(s.entries))
	for name, e := range s.entries {
		jobs = append(jobs, ScheduledJob{
			Name:    name,
			Expr:    e.expr,
			NextRun: s.cron.Entry(e.id).Next,
		})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs
}

// JobNames returns the registered job names, sorted
func (s *Scheduler) JobNames() []string {
	jobs := s.Jobs()
	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.Name
	}
	return names
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
