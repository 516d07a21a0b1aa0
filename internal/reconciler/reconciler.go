// Package reconciler joins normalized odds with game results and scores
// how often each bookmaker's favorite won.
package reconciler

import (
	"fmt"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

// Reconciliation is the result of joining odds with results.
type Reconciliation struct {
	Records          []models.ReconciledRecord
	UnmatchedOdds    []models.MatchKey
	UnmatchedResults []models.MatchKey
	Warnings         []models.Warning
}

// Reconcile inner-joins odds and results on the normalized match key. Odds
// keep their input order. When the results hold more than one game for a
// key, the first one wins and the rest are reported.
func Reconcile(odds []models.NormalizedOdds, results []models.GameResult) *Reconciliation {
	rec := &Reconciliation{Records: make([]models.ReconciledRecord, 0, len(odds))}

	index := make(map[models.MatchKey]models.GameResult, len(results))
	order := make([]models.MatchKey, 0, len(results))
	for _, r := range results {
		key := r.Key()
		if _, dup := index[key]; dup {
			rec.Warnings = append(rec.Warnings, models.Warning{
				Kind:    models.WarningDuplicateResult,
				Sport:   r.Sport,
				Match:   r.HomeTeam + " vs " + r.AwayTeam,
				Message: fmt.Sprintf("duplicate result %s ignored", r.GameID),
			})
			continue
		}
		index[key] = r
		order = append(order, key)
	}

	matched := make(map[models.MatchKey]bool, len(index))
	unmatched := make(map[models.MatchKey]bool)
	for _, o := range odds {
		key := o.Match.Key()
		result, ok := index[key]
		if !ok {
			if !unmatched[key] {
				unmatched[key] = true
				rec.UnmatchedOdds = append(rec.UnmatchedOdds, key)
				rec.Warnings = append(rec.Warnings, models.Warning{
					Kind:    models.WarningJoinKeyMismatch,
					Sport:   o.Match.Sport,
					Match:   o.Match.Title(),
					Message: "no result for match",
				})
			}
			continue
		}
		matched[key] = true
		rec.Records = append(rec.Records, reconcileOne(o, result))
	}

	for _, key := range order {
		if matched[key] {
			continue
		}
		r := index[key]
		rec.UnmatchedResults = append(rec.UnmatchedResults, key)
		rec.Warnings = append(rec.Warnings, models.Warning{
			Kind:    models.WarningJoinKeyMismatch,
			Sport:   r.Sport,
			Match:   r.HomeTeam + " vs " + r.AwayTeam,
			Message: "no odds for result",
		})
	}

	return rec
}

func reconcileOne(o models.NormalizedOdds, r models.GameResult) models.ReconciledRecord {
	favorite := FavoriteSide(o)
	winner := WinnerSide(r)
	return models.ReconciledRecord{
		Odds:     o,
		Result:   r,
		Favorite: favorite,
		Winner:   winner,
		Outcome:  Classify(favorite, winner),
	}
}

// FavoriteSide returns the side with the lower decimal price. Equal prices
// have no favorite. The draw leg is never the favorite.
func FavoriteSide(o models.NormalizedOdds) models.Side {
	switch o.HomeOdds.Cmp(o.AwayOdds) {
	case -1:
		return models.SideHome
	case 1:
		return models.SideAway
	default:
		return models.SideNone
	}
}

// WinnerSide returns the side with the higher score, SideDraw on a tie and
// SideNone while either score is unknown.
func WinnerSide(r models.GameResult) models.Side {
	if r.HomeScore == nil || r.AwayScore == nil {
		return models.SideNone
	}
	switch {
	case *r.HomeScore > *r.AwayScore:
		return models.SideHome
	case *r.HomeScore < *r.AwayScore:
		return models.SideAway
	default:
		return models.SideDraw
	}
}

// Classify derives the outcome from the favorite and the winner.
func Classify(favorite, winner models.Side) models.Outcome {
	switch {
	case favorite == models.SideNone, winner == models.SideNone:
		return models.OutcomeUnresolved
	case winner == models.SideDraw:
		return models.OutcomeDraw
	case winner == favorite:
		return models.OutcomeFavorite
	default:
		return models.OutcomeUnderdog
	}
}
