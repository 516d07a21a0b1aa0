package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/sportsbook-performance/internal/database"
	"github.com/yourusername/sportsbook-performance/internal/models"
)

var (
	reconciledColumns = []string{
		"run_id", "report_date", "sport", "match_date", "home_team", "away_team", "bookmaker",
		"home_odds", "away_odds", "draw_odds", "home_score", "away_score", "status", "game_id", "outcome",
	}
	summaryColumns = []string{
		"run_id", "report_date", "bookmaker", "matches", "completed", "favorite_wins", "favorite_pct",
		"underdog_wins", "underdog_pct", "draws", "unresolved",
	}
)

// PostgresReportRepository implements ReportRepository for PostgreSQL
type PostgresReportRepository struct {
	db *database.DB
}

// NewPostgresReportRepository creates a new report repository
func NewPostgresReportRepository(db *database.DB) ReportRepository {
	return &PostgresReportRepository{db: db}
}

// SaveRun copies the reconciled rows and summaries of one run in a single
// transaction.
func (r *PostgresReportRepository) SaveRun(ctx context.Context, runID uuid.UUID, day time.Time, records []models.ReconciledRecord, summaries []models.BookmakerSummary) error {
	reportDate := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	recordRows := make([][]interface{}, len(records))
	for i, rec := range records {
		recordRows[i] = reconciledRow(runID, reportDate, rec)
	}
	summaryRows := make([][]interface{}, len(summaries))
	for i, s := range summaries {
		summaryRows[i] = summaryRow(runID, reportDate, s)
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := copyRows(ctx, tx, "reconciled_records", reconciledColumns, recordRows); err != nil {
			return err
		}
		return copyRows(ctx, tx, "bookmaker_summaries", summaryColumns, summaryRows)
	})
}

func copyRows(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	count, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert %s: %w", table, err)
	}
	if count != int64(len(rows)) {
		return fmt.Errorf("inserted %d rows into %s, expected %d", count, table, len(rows))
	}
	return nil
}

// GetSummaries returns the bookmaker summaries stored for a run
func (r *PostgresReportRepository) GetSummaries(ctx context.Context, runID uuid.UUID) ([]models.BookmakerSummary, error) {
	query := `
		SELECT bookmaker, matches, completed, favorite_wins, favorite_pct, underdog_wins, underdog_pct, draws, unresolved
		FROM bookmaker_summaries
		WHERE run_id = $1
		ORDER BY bookmaker ASC
	`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.BookmakerSummary
	for rows.Next() {
		var (
			s                        models.BookmakerSummary
			favoritePct, underdogPct *float64
		)
		err := rows.Scan(
			&s.Bookmaker, &s.Matches, &s.Completed, &s.FavoriteWins, &favoritePct,
			&s.UnderdogWins, &underdogPct, &s.Draws, &s.Unresolved,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		s.FavoritePct = percentageFromDB(favoritePct)
		s.UnderdogPct = percentageFromDB(underdogPct)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func reconciledRow(runID uuid.UUID, reportDate time.Time, rec models.ReconciledRecord) []interface{} {
	var gameID *string
	if rec.Result.GameID != "" {
		id := rec.Result.GameID
		gameID = &id
	}
	return []interface{}{
		runID,
		reportDate,
		rec.Odds.Match.Sport,
		rec.Odds.Match.KickoffText(),
		rec.Odds.Match.HomeTeam,
		rec.Odds.Match.AwayTeam,
		rec.Odds.Bookmaker,
		rec.Odds.HomeOdds.InexactFloat64(),
		rec.Odds.AwayOdds.InexactFloat64(),
		optionalFloat(rec.Odds.DrawOdds),
		rec.Result.HomeScore,
		rec.Result.AwayScore,
		string(rec.Result.Status),
		gameID,
		string(rec.Outcome),
	}
}

func summaryRow(runID uuid.UUID, reportDate time.Time, s models.BookmakerSummary) []interface{} {
	return []interface{}{
		runID,
		reportDate,
		s.Bookmaker,
		s.Matches,
		s.Completed,
		s.FavoriteWins,
		percentageToDB(s.FavoritePct),
		s.UnderdogWins,
		percentageToDB(s.UnderdogPct),
		s.Draws,
		s.Unresolved,
	}
}

func optionalFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func percentageToDB(p models.Percentage) *float64 {
	if !p.Valid {
		return nil
	}
	f := p.Value.InexactFloat64()
	return &f
}

func percentageFromDB(f *float64) models.Percentage {
	if f == nil {
		return models.Percentage{}
	}
	return models.Percentage{Value: decimal.NewFromFloat(*f).Round(2), Valid: true}
}
