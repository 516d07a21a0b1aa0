package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPercentage(t *testing.T) {
	assert.Equal(t, "66.67", NewPercentage(2, 3).String())
	assert.Equal(t, "100.00", NewPercentage(4, 4).String())
	assert.Equal(t, "0.00", NewPercentage(0, 5).String())

	empty := NewPercentage(0, 0)
	assert.False(t, empty.Valid)
	assert.Equal(t, "n/a", empty.String())
}

func TestParseGameStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, ParseGameStatus("Completed"))
	assert.Equal(t, StatusScheduled, ParseGameStatus(" scheduled "))
	assert.Equal(t, StatusUnknown, ParseGameStatus("postponed"))
	assert.Equal(t, StatusUnknown, ParseGameStatus(""))
}

func TestMatchKeyNormalizes(t *testing.T) {
	odds := MatchInfo{Sport: "NFL", HomeTeam: "Team A", AwayTeam: "Team B"}
	result := GameResult{Sport: "nfl", HomeTeam: "team a ", AwayTeam: " team  b"}

	assert.Equal(t, odds.Key(), result.Key())
	assert.NotEqual(t, odds.Key(), NewMatchKey("NFL", "Team B", "Team A"))
}

func TestGroupKeyIncludesKickoff(t *testing.T) {
	loc := time.UTC
	a := MatchInfo{Sport: "NBA", HomeTeam: "X", AwayTeam: "Y", Kickoff: time.Date(2024, 1, 2, 19, 0, 0, 0, loc), KickoffParsed: true}
	b := a
	b.Kickoff = a.Kickoff.Add(24 * time.Hour)

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.GroupKey(), b.GroupKey())
}

func TestKickoffTextRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	m := MatchInfo{Kickoff: time.Date(2024, 9, 8, 13, 0, 0, 0, loc), KickoffParsed: true}
	parsed := ParseKickoffText(m.KickoffText(), loc)
	assert.True(t, parsed.KickoffParsed)
	assert.True(t, m.Kickoff.Equal(parsed.Kickoff))

	raw := ParseKickoffText("TBD", loc)
	assert.False(t, raw.KickoffParsed)
	assert.Equal(t, "TBD", raw.KickoffText())
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	assert.True(t, errors.Is(&MalformedMatchTitleError{Title: "A v B"}, ErrMalformedMatchTitle))
	assert.True(t, errors.Is(&LegCountMismatchError{Expected: 2, Actual: 1}, ErrLegCountMismatch))
	assert.True(t, errors.Is(&InvalidOddsValueError{Raw: "x"}, ErrInvalidOddsValue))

	inner := errors.New("connection refused")
	wrapped := fmt.Errorf("stage failed: %w", &ResultsFetchFailedError{Sport: "NFL", Err: inner})
	assert.True(t, errors.Is(wrapped, ErrResultsFetchFailed))
	assert.True(t, errors.Is(wrapped, inner))

	var fetchErr *ResultsFetchFailedError
	assert.True(t, errors.As(wrapped, &fetchErr))
	assert.Equal(t, "NFL", fetchErr.Sport)
}

func TestWarningKindForError(t *testing.T) {
	assert.Equal(t, WarningAmbiguousDrawEntry, WarningKindForError(ErrAmbiguousDrawEntry))
	assert.Equal(t, WarningMissingDrawEntry, WarningKindForError(fmt.Errorf("x: %w", ErrMissingDrawEntry)))
	assert.Equal(t, WarningLegCountMismatch, WarningKindForError(&LegCountMismatchError{}))
	assert.Equal(t, WarningResultsFetchFailed, WarningKindForError(errors.New("connection reset")))
}

func TestCountWarnings(t *testing.T) {
	counts := CountWarnings([]Warning{
		{Kind: WarningLegCountMismatch},
		{Kind: WarningLegCountMismatch},
		{Kind: WarningKickoffUnparsed},
	})
	assert.Equal(t, 2, counts[WarningLegCountMismatch])
	assert.Equal(t, 1, counts[WarningKickoffUnparsed])
	assert.Zero(t, counts[WarningDuplicateResult])
}

func TestParseOutcome(t *testing.T) {
	assert.Equal(t, OutcomeFavorite, ParseOutcome("Favorite"))
	assert.Equal(t, OutcomeUnresolved, ParseOutcome("whatever"))
}
