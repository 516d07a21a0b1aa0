// Package logger provides pipeline event logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

// PipelineLogger logs pipeline stage events with a fixed component field.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a pipeline logger for one component.
func NewPipelineLogger(baseLogger *logrus.Logger, component string) *PipelineLogger {
	return &PipelineLogger{
		Entry: OrDiscard(baseLogger).WithField("component", component),
	}
}

// LogStageStart logs the start of a stage for a run date.
func (pl *PipelineLogger) LogStageStart(runID, stage string, runDate time.Time) {
	pl.WithFields(logrus.Fields{
		"event_type": "stage_start",
		"run_id":     runID,
		"stage":      stage,
		"run_date":   runDate.Format("2006-01-02"),
	}).Info("Stage started")
}

// LogStageComplete logs the end of a stage with its counts.
func (pl *PipelineLogger) LogStageComplete(runID, stage string, duration time.Duration, counts logrus.Fields) {
	fields := logrus.Fields{
		"event_type":  "stage_complete",
		"run_id":      runID,
		"stage":       stage,
		"duration_ms": duration.Milliseconds(),
	}
	for k, v := range counts {
		fields[k] = v
	}
	pl.WithFields(fields).Info("Stage completed")
}

// LogWarning logs one recoverable problem.
func (pl *PipelineLogger) LogWarning(w models.Warning) {
	entry := pl.WithFields(logrus.Fields{
		"event_type":   "warning",
		"warning_kind": string(w.Kind),
		"sport":        w.Sport,
	})
	if w.Match != "" {
		entry = entry.WithField("match", w.Match)
	}
	if w.Bookmaker != "" {
		entry = entry.WithField("bookmaker", w.Bookmaker)
	}
	entry.Warn(w.Message)
}

// LogWarnings logs each warning in order.
func (pl *PipelineLogger) LogWarnings(warnings []models.Warning) {
	for _, w := range warnings {
		pl.LogWarning(w)
	}
}

// LogFetchFailure logs a failed download for one sport.
func (pl *PipelineLogger) LogFetchFailure(source, sport string, err error) {
	pl.WithFields(logrus.Fields{
		"event_type": "fetch_failure",
		"source":     source,
		"sport":      sport,
	}).WithError(err).Error("Fetch failed, skipping sport")
}

// LogUnmatched logs a match present on one side of the join only.
func (pl *PipelineLogger) LogUnmatched(side string, key models.MatchKey) {
	pl.WithFields(logrus.Fields{
		"event_type": "unmatched",
		"side":       side,
		"sport":      key.Sport,
		"home_team":  key.HomeTeam,
		"away_team":  key.AwayTeam,
	}).Debug("No counterpart for match")
}

// LogRunSummary logs the completeness summary of a run.
func (pl *PipelineLogger) LogRunSummary(runID string, counts logrus.Fields, warnings map[models.WarningKind]int) {
	fields := logrus.Fields{
		"event_type": "run_summary",
		"run_id":     runID,
	}
	for k, v := range counts {
		fields[k] = v
	}
	total := 0
	for kind, n := range warnings {
		fields["warnings_"+string(kind)] = n
		total += n
	}
	fields["warnings_total"] = total
	pl.WithFields(fields).Info("Run completed")
}
