package report

import (
	"encoding/csv"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

var oddsHeader = []string{
	"Sport", "Match Date", "Home Team", "Away Team",
	"Home Team Odds", "Away Team Odds", "Draw Odds", "Bookmaker", "Compiled_At",
}

// SaveOdds writes the normalized odds table of a run date and returns its
// path. An existing file is replaced.
func (s *Store) SaveOdds(day time.Time, odds []models.NormalizedOdds) (string, error) {
	path := s.OddsPath(day)
	err := writeFile(path, func(w *csv.Writer) error {
		if err := w.Write(oddsHeader); err != nil {
			return err
		}
		for _, o := range odds {
			if err := w.Write(s.oddsRow(o)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to save odds: %w", err)
	}
	return path, nil
}

func (s *Store) oddsRow(o models.NormalizedOdds) []string {
	return []string{
		o.Match.Sport,
		o.Match.KickoffText(),
		o.Match.HomeTeam,
		o.Match.AwayTeam,
		o.HomeOdds.String(),
		o.AwayOdds.String(),
		optionalDecimal(o.DrawOdds),
		o.Bookmaker,
		s.formatTime(o.CompiledAt),
	}
}

// LoadOdds reads the normalized odds table of a run date.
func (s *Store) LoadOdds(day time.Time) ([]models.NormalizedOdds, error) {
	path := s.OddsPath(day)
	rows, err := readTable(path, oddsHeader)
	if err != nil {
		return nil, err
	}

	odds := make([]models.NormalizedOdds, 0, len(rows))
	for i, row := range rows {
		o, err := s.parseOddsRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		odds = append(odds, o)
	}
	return odds, nil
}

func (s *Store) parseOddsRow(row []string) (models.NormalizedOdds, error) {
	match := models.ParseKickoffText(row[1], s.loc)
	match.Sport = row[0]
	match.HomeTeam = row[2]
	match.AwayTeam = row[3]

	home, err := decimal.NewFromString(row[4])
	if err != nil {
		return models.NormalizedOdds{}, fmt.Errorf("home odds: %w", err)
	}
	away, err := decimal.NewFromString(row[5])
	if err != nil {
		return models.NormalizedOdds{}, fmt.Errorf("away odds: %w", err)
	}
	var draw *decimal.Decimal
	if row[6] != "" {
		d, err := decimal.NewFromString(row[6])
		if err != nil {
			return models.NormalizedOdds{}, fmt.Errorf("draw odds: %w", err)
		}
		draw = &d
	}

	return models.NormalizedOdds{
		Match:      match,
		Bookmaker:  row[7],
		HomeOdds:   home,
		AwayOdds:   away,
		DrawOdds:   draw,
		CompiledAt: s.parseTime(row[8]),
	}, nil
}

func optionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func (s *Store) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(s.loc).Format(models.KickoffLayout)
}

func (s *Store) parseTime(text string) time.Time {
	t, err := time.ParseInLocation(models.KickoffLayout, text, s.loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
