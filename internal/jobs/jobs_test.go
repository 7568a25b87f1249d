package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWork struct {
	calls    atomic.Int32
	asSystem atomic.Bool
	enabled  bool
	err      error
}

func (f *fakeWork) run(ctx context.Context) (int, error) {
	f.calls.Add(1)
	actor, ok := auth.ActorFromContext(ctx)
	f.asSystem.Store(ok && actor.Role == domain.RoleSystem)
	return 1, f.err
}

func (f *fakeWork) Scan(ctx context.Context) (int, error)            { return f.run(ctx) }
func (f *fakeWork) Advance(ctx context.Context) (int, error)         { return f.run(ctx) }
func (f *fakeWork) DispatchPending(ctx context.Context) (int, error) { return f.run(ctx) }
func (f *fakeWork) Enabled() bool                                    { return f.enabled }

func testConfig() *config.Config {
	return &config.Config{
		Lifecycle: config.LifecycleConfig{ReviewCron: "@every 5m"},
		SLA:       config.SLAConfig{Enabled: true, MonitorCron: "@every 1m", ScanTimeout: 5},
		Events:    config.EventsConfig{RedeliveryCron: "*/30 * * * * *"},
	}
}

func TestScheduler_AddAndRemove(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("five_field", "*/5 * * * *", func() {}))
	require.NoError(t, s.AddJob("six_field", "*/30 * * * * *", func() {}))
	assert.Error(t, s.AddJob("five_field", "@hourly", func() {}))
	assert.Error(t, s.AddJob("broken", "not a cron", func() {}))

	assert.Equal(t, []string{"five_field", "six_field"}, s.JobNames())

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "*/5 * * * *", jobs[0].Expr)
	assert.True(t, jobs[0].NextRun.IsZero())

	s.Start()
	defer s.Stop()
	for _, job := range s.Jobs() {
		assert.False(t, job.NextRun.IsZero(), job.Name)
	}
}

func TestRegisterLifecycleJobs(t *testing.T) {
	monitor, advancer, dispatcher := &fakeWork{}, &fakeWork{enabled: true}, &fakeWork{}
	s := NewScheduler(zap.NewNop())

	require.NoError(t, RegisterLifecycleJobs(s, testConfig(), monitor, advancer, dispatcher, zap.NewNop(), true))
	assert.Equal(t, []string{EventRedeliveryJobName, ReviewAdvanceJobName, SLAMonitorJobName}, s.JobNames())

	require.Eventually(t, func() bool { return monitor.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, monitor.asSystem.Load())
}

func TestRegisterLifecycleJobs_SkipsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.SLA.Enabled = false
	s := NewScheduler(zap.NewNop())

	require.NoError(t, RegisterLifecycleJobs(s, cfg, &fakeWork{}, &fakeWork{}, &fakeWork{}, zap.NewNop(), true))
	assert.Equal(t, []string{EventRedeliveryJobName}, s.JobNames())
}

func TestJob_RunsAsSystem(t *testing.T) {
	work := &fakeWork{err: errors.New("database unavailable")}
	job := NewJob("test", work.run, zap.NewNop(), 0)

	job.Run()
	assert.Equal(t, int32(1), work.calls.Load())
	assert.True(t, work.asSystem.Load())
	assert.Equal(t, DefaultJobTimeout, job.timeout)
}
