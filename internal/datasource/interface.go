package datasource

import (
	"context"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

// MarkupSource downloads odds comparison pages
type MarkupSource interface {
	// FetchMarkup returns the page at path as UTF-8 text
	FetchMarkup(ctx context.Context, path string) (string, error)

	// Name returns the name of the data source
	Name() string
}

// ResultsSource fetches game results for one sport per call
type ResultsSource interface {
	// FetchResults returns games of the last daysFrom days for a league
	FetchResults(ctx context.Context, sport string, daysFrom int) ([]models.GameResult, error)

	// Name returns the name of the data source
	Name() string
}

// SportKeyLookup maps league names to results API sport keys
type SportKeyLookup interface {
	SportKey(name string) (string, bool)
}
