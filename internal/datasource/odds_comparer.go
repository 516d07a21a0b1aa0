package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportsbook-performance/internal/logger"
)

const (
	oddsComparerSourceName = "odds_comparer"
	maxMarkupBytes         = 16 << 20
)

// OddsComparerClient implements MarkupSource for the sportsbook odds comparer site
type OddsComparerClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	maxBytes   int64
	logger     *logrus.Logger
}

// NewOddsComparerClient creates a new odds comparer client
func NewOddsComparerClient(httpClient *RateLimitedHTTPClient, baseURL string, log *logrus.Logger) *OddsComparerClient {
	return &OddsComparerClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxBytes:   maxMarkupBytes,
		logger:     logger.OrDiscard(log),
	}
}

// FetchMarkup downloads one odds page
func (c *OddsComparerClient) FetchMarkup(ctx context.Context, path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", NewDataSourceError(oddsComparerSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return "", NewDataSourceError(oddsComparerSourceName, ErrCodeNetworkError, "failed to fetch page", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", NewDataSourceError(oddsComparerSourceName, ErrCodeNotFound, fmt.Sprintf("page %s not found", path), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", NewDataSourceError(oddsComparerSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		return "", NewDataSourceError(oddsComparerSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := readBody(resp.Body, c.maxBytes)
	if errors.Is(err, errBodyTooLarge) {
		return "", NewDataSourceError(oddsComparerSourceName, ErrCodeInvalidData, "page too large", err)
	}
	if err != nil {
		return "", NewDataSourceError(oddsComparerSourceName, ErrCodeNetworkError, "failed to read page", err)
	}

	c.logger.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(body),
	}).Debug("Fetched odds page")

	if !utf8.Valid(body) {
		return strings.ToValidUTF8(string(body), "\uFFFD"), nil
	}
	return string(body), nil
}

// Name returns the data source name
func (c *OddsComparerClient) Name() string {
	return oddsComparerSourceName
}
