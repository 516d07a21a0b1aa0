// Package report reads and writes the daily CSV tables.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

// File name prefixes, suffixed with the run date as YYYYMMDD.
const (
	OddsPrefix        = "game_odds_"
	ResultsPrefix     = "game_results_"
	PerformancePrefix = "sportsbook_performance_"

	dateLayout = "20060102"
)

// Store keeps the report files of each run date in one directory.
type Store struct {
	dir string
	loc *time.Location
}

// NewStore creates the output directory if needed. Timestamps are written
// in loc.
func NewStore(dir string, loc *time.Location) (*Store, error) {
	if loc == nil {
		loc = time.UTC
	}
	expanded, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Store{dir: expanded, loc: loc}, nil
}

func expandHome(dir string) (string, error) {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Location returns the zone timestamps are written in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// OddsPath returns the odds file of a run date.
func (s *Store) OddsPath(day time.Time) string {
	return s.path(OddsPrefix, day)
}

// ResultsPath returns the results file of a run date.
func (s *Store) ResultsPath(day time.Time) string {
	return s.path(ResultsPrefix, day)
}

// PerformancePath returns the performance report of a run date.
func (s *Store) PerformancePath(day time.Time) string {
	return s.path(PerformancePrefix, day)
}

func (s *Store) path(prefix string, day time.Time) string {
	return filepath.Join(s.dir, prefix+day.In(s.loc).Format(dateLayout)+".csv")
}

// writeFile renders a file through a temp file and a rename so readers
// never observe a half-written table.
func writeFile(path string, render func(w *csv.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := render(w); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}

// readTable reads a single-table file and checks its header. A missing
// file is reported as models.ErrMissingInput.
func readTable(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrMissingInput, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	got, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s is empty", filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	for i := range header {
		if strings.TrimPrefix(got[i], "\ufeff") != header[i] {
			return nil, fmt.Errorf("%s: unexpected column %q, want %q", filepath.Base(path), got[i], header[i])
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
