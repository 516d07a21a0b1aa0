package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

// RunSummary tracks the counts and warnings of one pipeline invocation
type RunSummary struct {
	mu            sync.RWMutex
	RunID         uuid.UUID
	Stage         string
	RunDate       time.Time
	StartTime     time.Time
	Duration      time.Duration
	Sports        int
	Extracted     int
	Normalized    int
	DroppedGroups int
	Results       int
	Reconciled    int
	FetchFailures map[string]int
	Warnings      []models.Warning
	Files         []string
}

// NewRunSummary creates a summary for a stage and run date
func NewRunSummary(stage string, runDate time.Time) *RunSummary {
	return &RunSummary{
		RunID:         uuid.New(),
		Stage:         stage,
		RunDate:       runDate,
		StartTime:     time.Now(),
		FetchFailures: make(map[string]int),
	}
}

// AddWarnings appends warnings in order
func (s *RunSummary) AddWarnings(warnings ...models.Warning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Warnings = append(s.Warnings, warnings...)
}

// RecordFetchFailure counts a failed download for a sport
func (s *RunSummary) RecordFetchFailure(sport string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FetchFailures[sport]++
}

// RecordFile remembers a file written by the run
func (s *RunSummary) RecordFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files = append(s.Files, path)
}

// Finish stamps the duration
func (s *RunSummary) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Duration = time.Since(s.StartTime)
}

// WarningCounts tallies warnings per kind
func (s *RunSummary) WarningCounts() map[models.WarningKind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CountWarnings(s.Warnings)
}

// Fields returns the counts as log fields
func (s *RunSummary) Fields() logrus.Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()

	failures := 0
	for _, n := range s.FetchFailures {
		failures += n
	}
	return logrus.Fields{
		"sports":         s.Sports,
		"extracted":      s.Extracted,
		"normalized":     s.Normalized,
		"dropped_groups": s.DroppedGroups,
		"results":        s.Results,
		"reconciled":     s.Reconciled,
		"fetch_failures": failures,
	}
}

// String returns a formatted string representation of the summary
func (s *RunSummary) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fmt.Sprintf(
		"RunSummary{Stage=%s, Date=%s, Sports=%d, Extracted=%d, Normalized=%d, Dropped=%d, Results=%d, Reconciled=%d, Warnings=%d, FetchFailures=%d, Duration=%v}",
		s.Stage,
		s.RunDate.Format("2006-01-02"),
		s.Sports,
		s.Extracted,
		s.Normalized,
		s.DroppedGroups,
		s.Results,
		s.Reconciled,
		len(s.Warnings),
		len(s.FetchFailures),
		s.Duration,
	)
}
