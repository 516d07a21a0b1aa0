package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("debug", "development").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("bogus", "development").GetLevel())

	prod := NewLogger("warn", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)
}

func TestPipelineLoggerWarning(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log, "normalizer")

	pl.LogWarning(models.Warning{
		Kind:      models.WarningLegCountMismatch,
		Sport:     "NFL",
		Match:     "Team A vs Team B",
		Bookmaker: "DraftKings",
		Message:   "leg count mismatch: expected 2, got 1",
	})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "normalizer", logEntry["component"])
	assert.Equal(t, "warning", logEntry["event_type"])
	assert.Equal(t, "LegCountMismatch", logEntry["warning_kind"])
	assert.Equal(t, "DraftKings", logEntry["bookmaker"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestPipelineLoggerFetchFailure(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log, "results")

	pl.LogFetchFailure("the_odds_api", "NHL", errors.New("503"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "NHL", logEntry["sport"])
	assert.Equal(t, "503", logEntry["error"])
	assert.Equal(t, "error", logEntry["level"])
}

func TestPipelineLoggerStageComplete(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log, "pipeline")

	pl.LogStageComplete("run-1", "odds", 1500*time.Millisecond, logrus.Fields{"records": 12})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "odds", logEntry["stage"])
	assert.Equal(t, float64(1500), logEntry["duration_ms"])
	assert.Equal(t, float64(12), logEntry["records"])
}

func TestPipelineLoggerRunSummary(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log, "pipeline")

	pl.LogRunSummary("run-1", logrus.Fields{"reconciled": 4}, map[models.WarningKind]int{
		models.WarningJoinKeyMismatch: 2,
		models.WarningKickoffUnparsed: 1,
	})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(3), logEntry["warnings_total"])
	assert.Equal(t, float64(2), logEntry["warnings_JoinKeyMismatch"])
}

func TestPipelineLoggerNilBase(t *testing.T) {
	pl := NewPipelineLogger(nil, "x")
	assert.NotPanics(t, func() {
		pl.LogUnmatched("odds", models.NewMatchKey("NFL", "A", "B"))
	})
}
