package reconciler

import (
	"github.com/yourusername/sportsbook-performance/internal/models"
)

// Summarize aggregates reconciled records per bookmaker in first-seen
// order. Only completed games count toward wins and draws; percentages
// are taken over completed games.
func Summarize(records []models.ReconciledRecord) []models.BookmakerSummary {
	var order []string
	byBookmaker := make(map[string]*models.BookmakerSummary)

	for _, r := range records {
		s, ok := byBookmaker[r.Odds.Bookmaker]
		if !ok {
			s = &models.BookmakerSummary{Bookmaker: r.Odds.Bookmaker}
			byBookmaker[r.Odds.Bookmaker] = s
			order = append(order, r.Odds.Bookmaker)
		}

		s.Matches++
		if r.Outcome == models.OutcomeUnresolved || r.Result.Status == models.StatusUnknown {
			s.Unresolved++
		}
		if !r.Result.IsCompleted() {
			continue
		}
		s.Completed++
		switch r.Outcome {
		case models.OutcomeFavorite:
			s.FavoriteWins++
		case models.OutcomeUnderdog:
			s.UnderdogWins++
		case models.OutcomeDraw:
			s.Draws++
		}
	}

	summaries := make([]models.BookmakerSummary, 0, len(order))
	for _, name := range order {
		s := byBookmaker[name]
		s.FavoritePct = models.NewPercentage(s.FavoriteWins, s.Completed)
		s.UnderdogPct = models.NewPercentage(s.UnderdogWins, s.Completed)
		summaries = append(summaries, *s)
	}
	return summaries
}

// CountOutcomes tallies reconciled records per outcome.
func CountOutcomes(records []models.ReconciledRecord) map[models.Outcome]int {
	counts := make(map[models.Outcome]int, 4)
	for _, r := range records {
		counts[r.Outcome]++
	}
	return counts
}
