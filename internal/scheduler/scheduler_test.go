package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sportsbook-performance/internal/service"
)

type fakePipeline struct {
	mu        sync.Mutex
	calls     []string
	days      []time.Time
	resultErr error
}

func (f *fakePipeline) note(call string, day time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.days = append(f.days, day)
}

func (f *fakePipeline) CollectOdds(ctx context.Context, day time.Time, sports []string) (*service.RunSummary, error) {
	f.note("odds", day)
	return service.NewRunSummary(service.StageOdds, day), nil
}

func (f *fakePipeline) FetchResults(ctx context.Context, day time.Time, sports []string) (*service.RunSummary, error) {
	f.note("results", day)
	return service.NewRunSummary(service.StageResults, day), f.resultErr
}

func (f *fakePipeline) Sync(ctx context.Context, day time.Time) (*service.RunSummary, error) {
	f.note("sync", day)
	return service.NewRunSummary(service.StageSync, day), nil
}

func newTestScheduler(t *testing.T, p *fakePipeline) *Scheduler {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	s := NewScheduler(p, []string{"NFL"}, loc, nil)
	s.now = func() time.Time { return time.Date(2024, 9, 8, 13, 0, 0, 0, time.UTC) }
	return s
}

func TestScheduler_OddsJobUsesToday(t *testing.T) {
	p := &fakePipeline{}
	s := newTestScheduler(t, p)
	require.NoError(t, s.ScheduleOddsCollection("0 9 * * *"))

	s.runOddsJob()

	require.Equal(t, []string{"odds"}, p.calls)
	assert.Equal(t, 8, p.days[0].Day())
	assert.Contains(t, s.JobStatuses()[JobOdds], "ok at 2024-09-08T09:00:00-04:00")
}

func TestScheduler_SyncJobUsesYesterday(t *testing.T) {
	p := &fakePipeline{}
	s := newTestScheduler(t, p)
	require.NoError(t, s.ScheduleSync("0 6 * * *"))

	assert.Equal(t, "pending", s.JobStatuses()[JobSync])
	s.runSyncJob()

	require.Equal(t, []string{"results", "sync"}, p.calls)
	assert.Equal(t, 7, p.days[0].Day())
	assert.Equal(t, 7, p.days[1].Day())
}

func TestScheduler_SyncSkippedWhenResultsFail(t *testing.T) {
	p := &fakePipeline{resultErr: errors.New("no credential")}
	s := newTestScheduler(t, p)
	require.NoError(t, s.ScheduleSync("0 6 * * *"))

	s.runSyncJob()

	assert.Equal(t, []string{"results"}, p.calls)
	assert.Equal(t, "error: no credential", s.JobStatuses()[JobSync])
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := newTestScheduler(t, &fakePipeline{})
	assert.Error(t, s.ScheduleOddsCollection("not a cron"))
}

func TestScheduler_DuplicateJob(t *testing.T) {
	s := newTestScheduler(t, &fakePipeline{})
	require.NoError(t, s.ScheduleOddsCollection("0 9 * * *"))
	assert.Error(t, s.ScheduleOddsCollection("0 10 * * *"))
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(t, &fakePipeline{})
	assert.Error(t, s.Start(), "no jobs")

	require.NoError(t, s.ScheduleOddsCollection("0 9 * * *"))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleSync("0 6 * * *"), "cannot add jobs while running")

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}
