package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

type staticSports map[string]string

func (s staticSports) SportKey(name string) (string, bool) {
	key, ok := s[name]
	return key, ok
}

const scoresFixture = `[
  {
    "id": "e1",
    "sport_key": "basketball_nba",
    "sport_title": "NBA",
    "commence_time": "2024-03-01T00:10:00Z",
    "completed": true,
    "home_team": "Boston Celtics",
    "away_team": "Dallas Mavericks",
    "scores": [
      {"name": "Boston Celtics", "score": "112"},
      {"name": "Dallas Mavericks", "score": 99}
    ]
  },
  {
    "id": "e2",
    "sport_key": "basketball_nba",
    "sport_title": "NBA",
    "commence_time": "2024-03-02T00:10:00Z",
    "completed": false,
    "home_team": "Miami Heat",
    "away_team": "Chicago Bulls",
    "scores": null
  },
  {
    "id": "e3",
    "sport_key": "basketball_nba",
    "sport_title": "NBA",
    "commence_time": "not a time",
    "home_team": "Utah Jazz",
    "away_team": "Phoenix Suns",
    "scores": [
      {"name": "Utah Jazz", "score": null},
      {"name": "Someone Else", "score": "7"}
    ]
  }
]`

func newTestOddsAPIClient(t *testing.T, handler http.HandlerFunc) (*OddsAPIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testHTTPConfig()
	cfg.MaxRetries = 0
	client, err := NewOddsAPIClient(NewRateLimitedHTTPClient(cfg, nil), OddsAPIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Sports:  staticSports{"NBA": "basketball_nba"},
	}, nil)
	require.NoError(t, err)
	return client, server
}

func TestOddsAPIClient_FetchResults(t *testing.T) {
	var path, apiKey, daysFrom string
	client, _ := newTestOddsAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.URL.Query().Get("apiKey")
		daysFrom = r.URL.Query().Get("daysFrom")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(scoresFixture))
	})

	results, err := client.FetchResults(context.Background(), "NBA", 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "/sports/basketball_nba/scores/", path)
	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, "2", daysFrom)

	first := results[0]
	assert.Equal(t, "NBA", first.Sport)
	assert.Equal(t, "basketball_nba", first.SportKey)
	assert.Equal(t, "e1", first.GameID)
	assert.Equal(t, models.StatusCompleted, first.Status)
	require.NotNil(t, first.HomeScore)
	require.NotNil(t, first.AwayScore)
	assert.Equal(t, 112, *first.HomeScore)
	assert.Equal(t, 99, *first.AwayScore)
	assert.Equal(t, 2024, first.CommenceTime.Year())

	second := results[1]
	assert.Equal(t, models.StatusScheduled, second.Status)
	assert.Nil(t, second.HomeScore)
	assert.Nil(t, second.AwayScore)

	third := results[2]
	assert.Equal(t, models.StatusUnknown, third.Status)
	assert.True(t, third.CommenceTime.IsZero())
	assert.Nil(t, third.HomeScore)
	assert.Nil(t, third.AwayScore, "scores for other names are ignored")
}

func TestOddsAPIClient_StatusField(t *testing.T) {
	client, _ := newTestOddsAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"x","home_team":"A","away_team":"B","status":"Final"}]`))
	})

	results, err := client.FetchResults(context.Background(), "NBA", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusCompleted, results[0].Status)
}

func TestOddsAPIClient_Unauthorized(t *testing.T) {
	client, _ := newTestOddsAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchResults(context.Background(), "NBA", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrResultsFetchFailed))
	assert.Equal(t, ErrCodeAuthenticationFailed, ErrorCode(err))
	assert.NotContains(t, err.Error(), "test-key")
}

func TestOddsAPIClient_ServerErrorHidesKey(t *testing.T) {
	client, _ := newTestOddsAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchResults(context.Background(), "NBA", 1)
	require.Error(t, err)
	assert.Equal(t, ErrCodeServerError, ErrorCode(err))
	assert.NotContains(t, err.Error(), "test-key")
}

func TestOddsAPIClient_InvalidJSON(t *testing.T) {
	client, _ := newTestOddsAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"not a list"}`))
	})

	_, err := client.FetchResults(context.Background(), "NBA", 1)
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidData, ErrorCode(err))
}

func TestOddsAPIClient_UnmappedSport(t *testing.T) {
	client, _ := newTestOddsAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an unmapped sport")
	})

	_, err := client.FetchResults(context.Background(), "Curling", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnmappedSport))
}

func TestOddsAPIClient_NegativeDaysFrom(t *testing.T) {
	client, _ := newTestOddsAPIClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.FetchResults(context.Background(), "NBA", -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrResultsFetchFailed)
	assert.Equal(t, models.WarningResultsFetchFailed, models.WarningKindForError(err))
}

func TestNewOddsAPIClient_MissingKey(t *testing.T) {
	_, err := NewOddsAPIClient(NewRateLimitedHTTPClient(testHTTPConfig(), nil), OddsAPIConfig{
		BaseURL: "http://localhost",
		APIKey:  "  ",
		Sports:  staticSports{},
	}, nil)
	assert.ErrorIs(t, err, models.ErrMissingCredential)
}

func TestScoreValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"string", `"21"`, intPtr(21)},
		{"number", `21`, intPtr(21)},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
		{"fractional", `"21.5"`, nil},
		{"padded", `" 3 "`, intPtr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s scoreValue
			require.NoError(t, s.UnmarshalJSON([]byte(tt.raw)))
			assert.Equal(t, tt.want, s.value)
		})
	}
}

func intPtr(n int) *int { return &n }
