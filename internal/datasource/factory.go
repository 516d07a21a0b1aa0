package datasource

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportsbook-performance/internal/config"
	"github.com/yourusername/sportsbook-performance/internal/logger"
	"github.com/yourusername/sportsbook-performance/internal/models"
)

// Factory creates the odds and results sources from configuration
type Factory struct {
	logger  *logrus.Logger
	config  *config.Config
	clients []*RateLimitedHTTPClient
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, log *logrus.Logger) *Factory {
	return &Factory{
		logger: logger.OrDiscard(log),
		config: cfg,
	}
}

// NewMarkupSource creates the odds comparer client
func (f *Factory) NewMarkupSource() *OddsComparerClient {
	src := f.config.OddsSource
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(src.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = src.MaxRetries
	httpCfg.RateLimit = src.RateLimit
	if src.UserAgent != "" {
		httpCfg.UserAgent = src.UserAgent
	}

	return NewOddsComparerClient(f.httpClient(httpCfg), src.BaseURL, f.logger)
}

// NewResultsSource creates the scores client, wrapped in a cache when a TTL
// is configured. It returns models.ErrMissingCredential without an API key.
func (f *Factory) NewResultsSource() (ResultsSource, error) {
	api := f.config.ResultsAPI
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(api.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = api.MaxRetries
	httpCfg.RateLimit = api.RateLimit

	if strings.TrimSpace(api.APIKey) == "" {
		return nil, fmt.Errorf("failed to create results source: %w", models.ErrMissingCredential)
	}

	client, err := NewOddsAPIClient(f.httpClient(httpCfg), OddsAPIConfig{
		BaseURL: api.BaseURL,
		APIKey:  api.APIKey,
		Sports:  f.config.SportTable(),
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create results source: %w", err)
	}

	if ttl := f.config.CacheTTL(); ttl > 0 {
		f.logger.WithField("ttl", ttl.String()).Debug("Caching results")
		return NewCachedResultsSource(client, ttl), nil
	}
	return client, nil
}

// Close releases the connections of every client the factory created
func (f *Factory) Close() error {
	for _, c := range f.clients {
		if err := c.Close(); err != nil {
			return err
		}
	}
	f.clients = nil
	return nil
}

func (f *Factory) httpClient(cfg HTTPClientConfig) *RateLimitedHTTPClient {
	c := NewRateLimitedHTTPClient(cfg, f.logger)
	f.clients = append(f.clients, c)
	return c
}
