package database

import (
	"context"
	"fmt"

	"github.com/yourusername/sportsbook-performance/internal/config"
)

// Schema creates the report tables. Rows are keyed by run so a rerun of the
// same date adds a new set rather than rewriting history.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS reconciled_records (
		run_id       UUID        NOT NULL,
		report_date  DATE        NOT NULL,
		sport        TEXT        NOT NULL,
		match_date   TEXT        NOT NULL,
		home_team    TEXT        NOT NULL,
		away_team    TEXT        NOT NULL,
		bookmaker    TEXT        NOT NULL,
		home_odds    NUMERIC(10,3) NOT NULL,
		away_odds    NUMERIC(10,3) NOT NULL,
		draw_odds    NUMERIC(10,3),
		home_score   INTEGER,
		away_score   INTEGER,
		status       TEXT        NOT NULL,
		game_id      TEXT,
		outcome      TEXT        NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reconciled_records_date ON reconciled_records (report_date, bookmaker)`,
	`CREATE TABLE IF NOT EXISTS bookmaker_summaries (
		run_id        UUID         NOT NULL,
		report_date   DATE         NOT NULL,
		bookmaker     TEXT         NOT NULL,
		matches       INTEGER      NOT NULL,
		completed     INTEGER      NOT NULL,
		favorite_wins INTEGER      NOT NULL,
		favorite_pct  NUMERIC(5,2),
		underdog_wins INTEGER      NOT NULL,
		underdog_pct  NUMERIC(5,2),
		draws         INTEGER      NOT NULL,
		unresolved    INTEGER      NOT NULL,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		PRIMARY KEY (run_id, bookmaker)
	)`,
}

// Initialize creates a connection pool and makes sure the report tables exist
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database, cfg.App.Name)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema applies Schema
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
