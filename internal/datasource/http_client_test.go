package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPConfig() HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 2
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 1000
	return cfg
}

func get(c *RateLimitedHTTPClient, ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

func breakerOpen(c *RateLimitedHTTPClient) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

func TestRateLimitedHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), nil)
	resp, err := get(client, context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
	assert.False(t, breakerOpen(client))
}

func TestRateLimitedHTTPClient_ReturnsFinalResponseAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), nil)
	resp, err := get(client, context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRateLimitedHTTPClient_SetsUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.UserAgent = "odds-test/2.0"
	client := NewRateLimitedHTTPClient(cfg, nil)
	resp, err := get(client, context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "odds-test/2.0", agent)
}

func TestRateLimitedHTTPClient_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	cfg.CircuitBreakerTimeout = time.Hour
	client := NewRateLimitedHTTPClient(cfg, nil)

	for i := 0; i < 2; i++ {
		resp, err := get(client, context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.True(t, breakerOpen(client))

	_, err := get(client, context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the server")
}

func TestRateLimitedHTTPClient_CircuitBreakerHalfOpen(t *testing.T) {
	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 1
	cfg.CircuitBreakerTimeout = 10 * time.Millisecond
	client := NewRateLimitedHTTPClient(cfg, nil)

	resp, err := get(client, context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.True(t, breakerOpen(client))

	time.Sleep(20 * time.Millisecond)
	healthy.Store(true)

	resp, err = get(client, context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, breakerOpen(client))
}

func TestRateLimitedHTTPClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), nil)
	_, err := get(client, ctx, server.URL)
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	err := redact(errors.New(`Get "https://api/scores/?apiKey=s3cret": timeout`), "s3cret")
	assert.NotContains(t, err.Error(), "s3cret")
	assert.Contains(t, err.Error(), "REDACTED")

	assert.Nil(t, redact(nil, "s3cret"))
}

func TestErrorCode(t *testing.T) {
	err := NewDataSourceError("src", ErrCodeNotFound, "missing", nil)
	assert.Equal(t, ErrCodeNotFound, ErrorCode(err))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
}
