// Package normalizer turns scraped odds rows into one decimal moneyline per
// match and bookmaker.
package normalizer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportsbook-performance/internal/logger"
	"github.com/yourusername/sportsbook-performance/internal/models"
	"github.com/yourusername/sportsbook-performance/internal/oddsmath"
)

// DrawEligibleFunc reports whether a sport quotes a draw leg.
type DrawEligibleFunc func(sport string) bool

// Normalization is the output of one Normalize call.
type Normalization struct {
	Odds          []models.NormalizedOdds
	Warnings      []models.Warning
	DroppedGroups int
}

// Normalizer validates and converts grouped odds rows.
type Normalizer struct {
	drawEligible DrawEligibleFunc
	logger       *logrus.Logger
}

// New creates a Normalizer. A nil drawEligible treats every sport as two-way.
func New(drawEligible DrawEligibleFunc, log *logrus.Logger) *Normalizer {
	if drawEligible == nil {
		drawEligible = func(string) bool { return false }
	}
	return &Normalizer{drawEligible: drawEligible, logger: logger.OrDiscard(log)}
}

type group struct {
	match     models.MatchInfo
	bookmaker string
	legs      []models.OddsRecord
}

// Normalize groups records by match and bookmaker in first-seen order and
// emits one NormalizedOdds per complete group.
func (n *Normalizer) Normalize(sport string, records []models.OddsRecord, compiledAt time.Time) *Normalization {
	out := &Normalization{Odds: make([]models.NormalizedOdds, 0)}
	drawEligible := n.drawEligible(sport)

	for _, g := range groupRecords(records) {
		odds, err := n.normalizeGroup(g, drawEligible)
		if err != nil {
			out.DroppedGroups++
			out.Warnings = append(out.Warnings, models.Warning{
				Kind:      models.WarningKindForError(err),
				Sport:     g.match.Sport,
				Match:     g.match.Title(),
				Bookmaker: g.bookmaker,
				Message:   err.Error(),
			})
			n.logger.WithFields(logrus.Fields{
				"sport":     g.match.Sport,
				"match":     g.match.Title(),
				"bookmaker": g.bookmaker,
				"legs":      len(g.legs),
			}).WithError(err).Debug("Dropped odds group")
			continue
		}
		odds.CompiledAt = compiledAt
		out.Odds = append(out.Odds, odds)
	}

	return out
}

func groupRecords(records []models.OddsRecord) []*group {
	type key struct {
		match     models.GroupKey
		bookmaker string
	}

	groups := make([]*group, 0)
	index := make(map[key]*group)
	for _, rec := range records {
		k := key{match: rec.Match.GroupKey(), bookmaker: rec.Bookmaker}
		g, ok := index[k]
		if !ok {
			g = &group{match: rec.Match, bookmaker: rec.Bookmaker}
			index[k] = g
			groups = append(groups, g)
		}
		g.legs = append(g.legs, rec)
	}
	return groups
}

func (n *Normalizer) normalizeGroup(g *group, drawEligible bool) (models.NormalizedOdds, error) {
	var home, away, other []models.OddsRecord
	for _, leg := range g.legs {
		switch {
		case oddsmath.SameTeam(leg.Team, g.match.HomeTeam):
			home = append(home, leg)
		case oddsmath.SameTeam(leg.Team, g.match.AwayTeam):
			away = append(away, leg)
		default:
			other = append(other, leg)
		}
	}

	expected := 2
	if drawEligible {
		expected = 3
	}

	if len(g.legs) != expected {
		return models.NormalizedOdds{}, legMismatch(expected, len(g.legs), home, away)
	}
	if drawEligible {
		switch {
		case len(other) > 1:
			return models.NormalizedOdds{}, fmt.Errorf("%w: %d entries match neither team", models.ErrAmbiguousDrawEntry, len(other))
		case len(other) == 0:
			return models.NormalizedOdds{}, fmt.Errorf("%w: no entry besides the two teams", models.ErrMissingDrawEntry)
		}
	}
	if (!drawEligible && len(other) > 0) || len(home) != 1 || len(away) != 1 {
		return models.NormalizedOdds{}, legMismatch(expected, len(g.legs), home, away)
	}

	odds := models.NormalizedOdds{Match: g.match, Bookmaker: g.bookmaker}
	var err error
	if odds.HomeOdds, err = convert(home[0]); err != nil {
		return models.NormalizedOdds{}, err
	}
	if odds.AwayOdds, err = convert(away[0]); err != nil {
		return models.NormalizedOdds{}, err
	}
	if drawEligible {
		draw, err := convert(other[0])
		if err != nil {
			return models.NormalizedOdds{}, err
		}
		odds.DrawOdds = &draw
	}
	return odds, nil
}

func convert(leg models.OddsRecord) (decimal.Decimal, error) {
	d, err := oddsmath.PriceToDecimal(leg.Price)
	if err != nil {
		return decimal.Zero, &models.InvalidOddsValueError{Raw: leg.Price}
	}
	return d, nil
}

func legMismatch(expected, actual int, home, away []models.OddsRecord) error {
	err := &models.LegCountMismatchError{Expected: expected, Actual: actual}
	switch {
	case len(home) == 0:
		err.Reason = "no home leg"
	case len(away) == 0:
		err.Reason = "no away leg"
	case len(home) > 1 || len(away) > 1:
		err.Reason = "duplicate team leg"
	}
	return err
}

// FilterByDate keeps records whose kickoff falls on day's calendar date in
// day's location. Records with an unparsed kickoff are kept.
func FilterByDate(records []models.OddsRecord, day time.Time) []models.OddsRecord {
	y, m, d := day.Date()
	out := make([]models.OddsRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Match.KickoffParsed {
			out = append(out, rec)
			continue
		}
		ky, km, kd := rec.Match.Kickoff.In(day.Location()).Date()
		if ky == y && km == m && kd == d {
			out = append(out, rec)
		}
	}
	return out
}
