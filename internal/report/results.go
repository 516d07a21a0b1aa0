package report

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

var resultsHeader = []string{
	"Sport", "Event Time", "Home Team", "Away Team",
	"Home Score", "Away Score", "Status", "Game ID",
}

// SaveResults writes the results table of a run date and returns its path.
func (s *Store) SaveResults(day time.Time, results []models.GameResult) (string, error) {
	path := s.ResultsPath(day)
	err := writeFile(path, func(w *csv.Writer) error {
		if err := w.Write(resultsHeader); err != nil {
			return err
		}
		for _, r := range results {
			if err := w.Write(s.resultRow(r)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to save results: %w", err)
	}
	return path, nil
}

func (s *Store) resultRow(r models.GameResult) []string {
	return []string{
		r.Sport,
		s.formatTime(r.CommenceTime),
		r.HomeTeam,
		r.AwayTeam,
		optionalInt(r.HomeScore),
		optionalInt(r.AwayScore),
		statusLabel(r.Status),
		r.GameID,
	}
}

// LoadResults reads the results table of a run date.
func (s *Store) LoadResults(day time.Time) ([]models.GameResult, error) {
	path := s.ResultsPath(day)
	rows, err := readTable(path, resultsHeader)
	if err != nil {
		return nil, err
	}

	results := make([]models.GameResult, 0, len(rows))
	for i, row := range rows {
		home, err := parseOptionalInt(row[4])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: home score: %w", path, i+2, err)
		}
		away, err := parseOptionalInt(row[5])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: away score: %w", path, i+2, err)
		}
		results = append(results, models.GameResult{
			Sport:        row[0],
			CommenceTime: s.parseTime(row[1]),
			HomeTeam:     row[2],
			AwayTeam:     row[3],
			HomeScore:    home,
			AwayScore:    away,
			Status:       models.ParseGameStatus(row[6]),
			GameID:       row[7],
		})
	}
	return results, nil
}

func optionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func parseOptionalInt(text string) (*int, error) {
	if text == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func statusLabel(status models.GameStatus) string {
	switch status {
	case models.StatusCompleted:
		return "Completed"
	case models.StatusScheduled:
		return "Scheduled"
	default:
		return "Unknown"
	}
}
