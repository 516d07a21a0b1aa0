package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportsbook-performance/internal/logger"
	"github.com/yourusername/sportsbook-performance/internal/models"
)

const (
	oddsAPISourceName = "the_odds_api"
	maxScoresBytes    = 8 << 20
)

// OddsAPIConfig holds everything the scores client needs. The key is kept
// here rather than in process globals.
type OddsAPIConfig struct {
	BaseURL string
	APIKey  string
	Sports  SportKeyLookup
}

// OddsAPIClient implements ResultsSource for The Odds API scores endpoint
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sports     SportKeyLookup
	logger     *logrus.Logger
}

// oddsAPIEvent is one element of the scores response
type oddsAPIEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	SportTitle   string         `json:"sport_title"`
	CommenceTime string         `json:"commence_time"`
	Completed    *bool          `json:"completed"`
	Status       *string        `json:"status"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Scores       []oddsAPIScore `json:"scores"`
}

type oddsAPIScore struct {
	Name  string     `json:"name"`
	Score scoreValue `json:"score"`
}

// scoreValue accepts "21", 21 or null. Anything that is not an integer
// decodes as unknown.
type scoreValue struct {
	value *int
}

func (s *scoreValue) UnmarshalJSON(data []byte) error {
	s.value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
		s.value = &n
	}
	return nil
}

// NewOddsAPIClient creates a new scores client. A missing key is fatal for
// the results stage only, so it is reported here rather than at startup.
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, cfg OddsAPIConfig, log *logrus.Logger) (*OddsAPIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, models.ErrMissingCredential
	}
	if cfg.Sports == nil {
		return nil, fmt.Errorf("sport table is required")
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		sports:     cfg.Sports,
		logger:     logger.OrDiscard(log),
	}, nil
}

// FetchResults retrieves games of the last daysFrom days for one league
func (c *OddsAPIClient) FetchResults(ctx context.Context, sport string, daysFrom int) ([]models.GameResult, error) {
	key, ok := c.sports.SportKey(sport)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnmappedSport, sport)
	}
	if daysFrom < 0 {
		return nil, &models.ResultsFetchFailedError{Sport: sport, Err: fmt.Errorf("daysFrom must be >= 0, got %d", daysFrom)}
	}

	events, err := c.fetchScores(ctx, key, daysFrom)
	if err != nil {
		return nil, &models.ResultsFetchFailedError{Sport: sport, Err: err}
	}

	results := make([]models.GameResult, 0, len(events))
	for _, ev := range events {
		results = append(results, convertEvent(sport, key, ev))
	}

	c.logger.WithFields(logrus.Fields{
		"sport":     sport,
		"sport_key": key,
		"games":     len(results),
	}).Debug("Fetched scores")

	return results, nil
}

func (c *OddsAPIClient) fetchScores(ctx context.Context, sportKey string, daysFrom int) ([]oddsAPIEvent, error) {
	query := url.Values{}
	query.Set("apiKey", c.apiKey)
	query.Set("daysFrom", strconv.Itoa(daysFrom))
	endpoint := fmt.Sprintf("%s/sports/%s/scores/?%s", c.baseURL, url.PathEscape(sportKey), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to create request", redact(err, c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to fetch scores", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNotFound, "unknown sport key "+sportKey, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	body, err := readBody(resp.Body, maxScoresBytes)
	if errors.Is(err, errBodyTooLarge) {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "response too large", err)
	}
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to read response", err)
	}

	var events []oddsAPIEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return events, nil
}

// convertEvent maps an API event onto a GameResult. Scores are matched to
// teams by exact name; unmatched sides stay unknown.
func convertEvent(sport, sportKey string, ev oddsAPIEvent) models.GameResult {
	result := models.GameResult{
		Sport:      sport,
		SportKey:   sportKey,
		SportTitle: ev.SportTitle,
		HomeTeam:   ev.HomeTeam,
		AwayTeam:   ev.AwayTeam,
		GameID:     ev.ID,
		Status:     eventStatus(ev),
	}
	if ev.SportKey != "" {
		result.SportKey = ev.SportKey
	}
	if t, err := time.Parse(time.RFC3339, ev.CommenceTime); err == nil {
		result.CommenceTime = t
	}

	for _, s := range ev.Scores {
		switch s.Name {
		case ev.HomeTeam:
			if result.HomeScore == nil {
				result.HomeScore = s.Score.value
			}
		case ev.AwayTeam:
			if result.AwayScore == nil {
				result.AwayScore = s.Score.value
			}
		}
	}
	return result
}

func eventStatus(ev oddsAPIEvent) models.GameStatus {
	if ev.Completed != nil {
		if *ev.Completed {
			return models.StatusCompleted
		}
		return models.StatusScheduled
	}
	if ev.Status != nil {
		return models.ParseGameStatus(*ev.Status)
	}
	return models.StatusUnknown
}

// Name returns the data source name
func (c *OddsAPIClient) Name() string {
	return oddsAPISourceName
}
