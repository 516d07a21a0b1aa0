package datasource

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/sportsbook-performance/internal/metrics"
	"github.com/yourusername/sportsbook-performance/internal/models"
	"github.com/yourusername/sportsbook-performance/internal/oddsmath"
)

// CachedResultsSource keeps successful results per (sport, daysFrom) so
// repeated runs inside the TTL do not spend API quota. Failures are not cached.
type CachedResultsSource struct {
	source ResultsSource
	cache  *cache.Cache
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedResultsSource wraps source with a go-cache of the given TTL
func NewCachedResultsSource(source ResultsSource, ttl time.Duration) *CachedResultsSource {
	return &CachedResultsSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
	}
}

func cacheKey(sport string, daysFrom int) string {
	return fmt.Sprintf("%s:%d", oddsmath.NormalizeTeamName(sport), daysFrom)
}

// FetchResults returns cached results or delegates to the wrapped source
func (c *CachedResultsSource) FetchResults(ctx context.Context, sport string, daysFrom int) ([]models.GameResult, error) {
	key := cacheKey(sport, daysFrom)
	if cached, found := c.cache.Get(key); found {
		if results, ok := cached.([]models.GameResult); ok {
			c.hits.Add(1)
			metrics.RecordCacheHit()
			return copyResults(results), nil
		}
	}

	c.misses.Add(1)
	metrics.RecordCacheMiss()

	results, err := c.source.FetchResults(ctx, sport, daysFrom)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, copyResults(results), c.ttl)
	return results, nil
}

// Name returns the wrapped source name
func (c *CachedResultsSource) Name() string {
	return c.source.Name()
}

// Stats returns cache statistics
func (c *CachedResultsSource) Stats() (hits, misses uint64, ratio float64) {
	hits = c.hits.Load()
	misses = c.misses.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return hits, misses, ratio
}

// ItemCount returns the number of cached sports
func (c *CachedResultsSource) ItemCount() int {
	return c.cache.ItemCount()
}

func copyResults(in []models.GameResult) []models.GameResult {
	out := make([]models.GameResult, len(in))
	copy(out, in)
	return out
}
