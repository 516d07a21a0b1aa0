package report

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

var (
	summaryHeader = []string{
		"Bookmaker", "Matches", "Completed", "Favorite Wins", "Favorite Win %",
		"Underdog Wins", "Underdog Win %", "Draws", "Unresolved",
	}
	reconciledHeader = []string{
		"Sport", "Match Date", "Home Team", "Away Team", "Home Team Odds",
		"Away Team Odds", "Draw Odds", "Bookmaker", "Home Score", "Away Score",
		"Status", "Game ID", "Outcome",
	}
	completenessHeader = []string{"Warning", "Count"}
)

// Performance is the content of the daily performance report.
type Performance struct {
	Summaries []models.BookmakerSummary
	Records   []models.ReconciledRecord
	Warnings  map[models.WarningKind]int
}

// SavePerformance writes the bookmaker summary, the reconciled rows and the
// warning counts as three tables separated by blank lines.
func (s *Store) SavePerformance(day time.Time, p Performance) (string, error) {
	path := s.PerformancePath(day)
	err := writeFile(path, func(w *csv.Writer) error {
		w.Write(summaryHeader)
		for _, sum := range p.Summaries {
			w.Write([]string{
				sum.Bookmaker,
				strconv.Itoa(sum.Matches),
				strconv.Itoa(sum.Completed),
				strconv.Itoa(sum.FavoriteWins),
				sum.FavoritePct.String(),
				strconv.Itoa(sum.UnderdogWins),
				sum.UnderdogPct.String(),
				strconv.Itoa(sum.Draws),
				strconv.Itoa(sum.Unresolved),
			})
		}

		w.Write(nil)
		w.Write(reconciledHeader)
		for _, r := range p.Records {
			w.Write([]string{
				r.Odds.Match.Sport,
				r.Odds.Match.KickoffText(),
				r.Odds.Match.HomeTeam,
				r.Odds.Match.AwayTeam,
				r.Odds.HomeOdds.String(),
				r.Odds.AwayOdds.String(),
				optionalDecimal(r.Odds.DrawOdds),
				r.Odds.Bookmaker,
				optionalInt(r.Result.HomeScore),
				optionalInt(r.Result.AwayScore),
				statusLabel(r.Result.Status),
				r.Result.GameID,
				string(r.Outcome),
			})
		}

		w.Write(nil)
		w.Write(completenessHeader)
		for _, kind := range models.WarningKinds {
			w.Write([]string{string(kind), strconv.Itoa(p.Warnings[kind])})
		}
		return w.Error()
	})
	if err != nil {
		return "", fmt.Errorf("failed to save performance report: %w", err)
	}
	return path, nil
}
