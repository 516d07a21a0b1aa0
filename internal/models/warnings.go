package models

import (
	"errors"
	"fmt"
)

// WarningKind names a recoverable problem recorded during a run.
type WarningKind string

const (
	WarningMalformedMatchTitle WarningKind = "MalformedMatchTitle"
	WarningKickoffUnparsed     WarningKind = "KickoffUnparsed"
	WarningInvalidOddsValue    WarningKind = "InvalidOddsValue"
	WarningLegCountMismatch    WarningKind = "LegCountMismatch"
	WarningMissingDrawEntry    WarningKind = "MissingDrawEntry"
	WarningAmbiguousDrawEntry  WarningKind = "AmbiguousDrawEntry"
	WarningUnmappedSport       WarningKind = "UnmappedSport"
	WarningMarkupFetchFailed   WarningKind = "MarkupFetchFailed"
	WarningResultsFetchFailed  WarningKind = "ResultsFetchFailed"
	WarningJoinKeyMismatch     WarningKind = "JoinKeyMismatch"
	WarningDuplicateResult     WarningKind = "DuplicateResult"
)

// WarningKinds lists every kind in report order.
var WarningKinds = []WarningKind{
	WarningMalformedMatchTitle,
	WarningKickoffUnparsed,
	WarningInvalidOddsValue,
	WarningLegCountMismatch,
	WarningMissingDrawEntry,
	WarningAmbiguousDrawEntry,
	WarningUnmappedSport,
	WarningMarkupFetchFailed,
	WarningResultsFetchFailed,
	WarningJoinKeyMismatch,
	WarningDuplicateResult,
}

// Warning is a recoverable problem attached to a sport, match or bookmaker.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	Sport     string      `json:"sport,omitempty"`
	Match     string      `json:"match,omitempty"`
	Bookmaker string      `json:"bookmaker,omitempty"`
	Message   string      `json:"message"`
}

func (w Warning) String() string {
	s := string(w.Kind)
	if w.Sport != "" {
		s += " [" + w.Sport + "]"
	}
	if w.Match != "" {
		s += " " + w.Match
	}
	if w.Bookmaker != "" {
		s += " (" + w.Bookmaker + ")"
	}
	return fmt.Sprintf("%s: %s", s, w.Message)
}

// WarningKindForError maps a taxonomy error onto its warning kind. Errors
// outside the taxonomy are source failures.
func WarningKindForError(err error) WarningKind {
	switch {
	case errors.Is(err, ErrMalformedMatchTitle):
		return WarningMalformedMatchTitle
	case errors.Is(err, ErrInvalidOddsValue):
		return WarningInvalidOddsValue
	case errors.Is(err, ErrMissingDrawEntry):
		return WarningMissingDrawEntry
	case errors.Is(err, ErrAmbiguousDrawEntry):
		return WarningAmbiguousDrawEntry
	case errors.Is(err, ErrUnmappedSport):
		return WarningUnmappedSport
	case errors.Is(err, ErrResultsFetchFailed):
		return WarningResultsFetchFailed
	case errors.Is(err, ErrJoinKeyMismatch):
		return WarningJoinKeyMismatch
	case errors.Is(err, ErrLegCountMismatch):
		return WarningLegCountMismatch
	default:
		return WarningResultsFetchFailed
	}
}

// CountWarnings tallies warnings per kind.
func CountWarnings(warnings []Warning) map[WarningKind]int {
	counts := make(map[WarningKind]int)
	for _, w := range warnings {
		counts[w.Kind]++
	}
	return counts
}
