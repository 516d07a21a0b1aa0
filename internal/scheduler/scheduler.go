package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportsbook-performance/internal/logger"
	"github.com/yourusername/sportsbook-performance/internal/service"
)

// Job names
const (
	JobOdds = "odds"
	JobSync = "sync"
)

// PipelineRunner is the part of the pipeline the scheduler drives
type PipelineRunner interface {
	CollectOdds(ctx context.Context, day time.Time, sports []string) (*service.RunSummary, error)
	FetchResults(ctx context.Context, day time.Time, sports []string) (*service.RunSummary, error)
	Sync(ctx context.Context, day time.Time) (*service.RunSummary, error)
}

type jobStatus struct {
	lastRun time.Time
	err     error
}

// Scheduler manages the daily pipeline jobs
type Scheduler struct {
	cron            *cron.Cron
	pipeline        PipelineRunner
	sports          []string
	loc             *time.Location
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          map[string]cron.EntryID
	statuses        map[string]jobStatus
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
	now             func() time.Time
}

// NewScheduler creates a new scheduler. Jobs fire in loc and never overlap
// with themselves.
func NewScheduler(pipeline PipelineRunner, sports []string, loc *time.Location, log *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	log = logger.OrDiscard(log)

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.PrintfLogger(log)), cron.SkipIfStillRunning(cron.PrintfLogger(log))),
		),
		pipeline:        pipeline,
		sports:          sports,
		loc:             loc,
		logger:          log,
		jobIDs:          make(map[string]cron.EntryID),
		statuses:        make(map[string]jobStatus),
		jobTimeout:      2 * time.Hour,
		gracefulTimeout: 30 * time.Second,
		now:             time.Now,
	}
}

// ScheduleOddsCollection scrapes the current day's odds on spec
func (s *Scheduler) ScheduleOddsCollection(spec string) error {
	return s.schedule(JobOdds, spec, s.runOddsJob)
}

// ScheduleSync fetches results and reconciles the previous day on spec
func (s *Scheduler) ScheduleSync(spec string) error {
	return s.schedule(JobSync, spec, s.runSyncJob)
}

func (s *Scheduler) schedule(name, spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if _, exists := s.jobIDs[name]; exists {
		return fmt.Errorf("job %s already scheduled", name)
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs[name] = entryID
	s.logger.WithFields(logrus.Fields{"job": name, "cron": spec}).Info("Scheduled job")
	return nil
}

func (s *Scheduler) runOddsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	day := s.now().In(s.loc)
	sum, err := s.pipeline.CollectOdds(ctx, day, s.sports)
	s.record(JobOdds, sum, err)
}

func (s *Scheduler) runSyncJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	day := s.now().In(s.loc).AddDate(0, 0, -1)
	sum, err := s.pipeline.FetchResults(ctx, day, s.sports)
	if err == nil {
		sum, err = s.pipeline.Sync(ctx, day)
	}
	s.record(JobSync, sum, err)
}

func (s *Scheduler) record(name string, sum *service.RunSummary, err error) {
	s.mu.Lock()
	s.statuses[name] = jobStatus{lastRun: s.now(), err: err}
	s.mu.Unlock()

	entry := s.logger.WithField("job", name)
	if err != nil {
		entry.WithError(err).Error("Scheduled job failed")
		return
	}
	if sum != nil {
		entry = entry.WithField("summary", sum.String())
	}
	entry.Info("Scheduled job completed")
}

// JobStatuses reports the outcome of the last run of each job
func (s *Scheduler) JobStatuses() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.jobIDs))
	for name := range s.jobIDs {
		st, ok := s.statuses[name]
		switch {
		case !ok:
			out[name] = "pending"
		case st.err != nil:
			out[name] = "error: " + st.err.Error()
		default:
			out[name] = "ok at " + st.lastRun.In(s.loc).Format(time.RFC3339)
		}
	}
	return out
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler, waiting up to the graceful timeout for a
// running job.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("timed out waiting for running jobs")
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}
