package models

import (
	"errors"
	"fmt"

	"github.com/yourusername/sportsbook-performance/internal/oddsmath"
)

// Pipeline errors. Record and group level problems are downgraded to
// warnings by the stage that detects them; only ErrMissingCredential and
// ErrMissingInput abort a stage.
var (
	ErrMalformedMatchTitle = errors.New("malformed match title")
	ErrInvalidOddsValue    = oddsmath.ErrInvalidOdds
	ErrLegCountMismatch    = errors.New("leg count mismatch")
	ErrMissingDrawEntry    = errors.New("missing draw entry")
	ErrAmbiguousDrawEntry  = errors.New("ambiguous draw entry")
	ErrResultsFetchFailed  = errors.New("results fetch failed")
	ErrUnmappedSport       = errors.New("sport has no results api mapping")
	ErrMissingCredential   = errors.New("missing api credential")
	ErrJoinKeyMismatch     = errors.New("join key mismatch")
	ErrMissingInput        = errors.New("missing input file")
)

// MalformedMatchTitleError is returned when a match heading does not split
// into exactly two teams on " vs ".
type MalformedMatchTitleError struct {
	Title string
}

func (e *MalformedMatchTitleError) Error() string {
	return fmt.Sprintf("malformed match title %q", e.Title)
}

func (e *MalformedMatchTitleError) Is(target error) bool {
	return target == ErrMalformedMatchTitle
}

// InvalidOddsValueError carries the raw price text that could not be
// interpreted as a non-zero American value.
type InvalidOddsValueError struct {
	Raw string
}

func (e *InvalidOddsValueError) Error() string {
	return fmt.Sprintf("invalid odds value %q", e.Raw)
}

func (e *InvalidOddsValueError) Is(target error) bool {
	return target == ErrInvalidOddsValue
}

// LegCountMismatchError reports a (match, bookmaker) group whose entries do
// not line up with the expected legs.
type LegCountMismatchError struct {
	Expected int
	Actual   int
	Reason   string
}

func (e *LegCountMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("leg count mismatch: expected %d, got %d: %s", e.Expected, e.Actual, e.Reason)
	}
	return fmt.Sprintf("leg count mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *LegCountMismatchError) Is(target error) bool {
	return target == ErrLegCountMismatch
}

// ResultsFetchFailedError wraps a transport or decoding failure for one sport.
type ResultsFetchFailedError struct {
	Sport string
	Err   error
}

func (e *ResultsFetchFailedError) Error() string {
	return fmt.Sprintf("results fetch failed for %s: %v", e.Sport, e.Err)
}

func (e *ResultsFetchFailedError) Is(target error) bool {
	return target == ErrResultsFetchFailed
}

func (e *ResultsFetchFailedError) Unwrap() error {
	return e.Err
}
