package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDSNEnv names the variable holding the connection string of a
// scratch database for integration tests.
const TestDSNEnv = "SPORTSBOOK_TEST_DATABASE_DSN"

// SetupTestDB connects to the test database and applies the schema. The
// test is skipped when TestDSNEnv is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping database test", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDBFromDSN(ctx, dsn, 2)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() { TeardownTestDB(t, db) })
	return db
}

// TeardownTestDB empties the report tables and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, table := range []string{"reconciled_records", "bookmaker_summaries"} {
		if _, err := db.Exec(ctx, "TRUNCATE "+table); err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
	db.Close()
}
