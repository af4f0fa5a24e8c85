package upstream

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

func serve(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGetJSONClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		rateLimited bool
	}{
		{"ok", http.StatusOK, `{"value": 7}`, false, false},
		{"status 429", http.StatusTooManyRequests, `{"error":"slow down"}`, true, true},
		{"html instead of json", http.StatusOK, "<!DOCTYPE html><html><body>Too busy</body></html>", true, true},
		{"server error", http.StatusInternalServerError, `{}`, true, false},
		{"malformed json", http.StatusOK, `{"value":`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := serve(t, tt.status, tt.body)
			c := NewClient(Config{Name: "test", Timeout: time.Second})

			var out struct {
				Value int `json:"value"`
			}
			err := c.GetJSON(context.Background(), srv.URL, &out)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 7, out.Value)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoData)
			assert.Equal(t, tt.rateLimited, errors.Is(err, ErrRateLimited))
		})
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv, hits := serve(t, http.StatusBadGateway, "")
	c := NewClient(Config{Name: "flaky", Timeout: time.Second})

	var out map[string]any
	for i := 0; i < 5; i++ {
		require.Error(t, c.GetJSON(context.Background(), srv.URL, &out))
	}
	require.EqualValues(t, 5, atomic.LoadInt32(hits))

	err := c.GetJSON(context.Background(), srv.URL, &out)
	assert.ErrorIs(t, err, ErrNoData)
	assert.EqualValues(t, 5, atomic.LoadInt32(hits), "open breaker must not reach the upstream")
}

func TestBreakerIgnoresPerRequestFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Path {
		case "/BOGUS":
			http.NotFound(w, r)
		case "/GARBLED":
			_, _ = w.Write([]byte(`{"value":`))
		default:
			_, _ = w.Write([]byte(`{"value": 7}`))
		}
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{Name: "stocktwits", Timeout: time.Second})

	var out struct {
		Value int `json:"value"`
	}
	for i := 0; i < 10; i++ {
		path := "/BOGUS"
		if i%2 == 1 {
			path = "/GARBLED"
		}
		err := c.GetJSON(context.Background(), srv.URL+path, &out)
		require.ErrorIs(t, err, ErrNoData)
		assert.False(t, errors.Is(err, ErrRateLimited))
	}

	require.NoError(t, c.GetJSON(context.Background(), srv.URL+"/AAPL", &out))
	assert.Equal(t, 7, out.Value)
	assert.EqualValues(t, 11, atomic.LoadInt32(&hits))
}

func TestCancelledContextIsNoData(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{}`)
	c := NewClient(Config{Name: "slow", RPS: 0.001, Burst: 1})

	var out map[string]any
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.GetJSON(ctx, srv.URL, &out), ErrNoData)
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML([]byte("  <!doctype html><title>x</title>")))
	assert.True(t, LooksLikeHTML([]byte("<HTML><body>quota</body></HTML>")))
	assert.False(t, LooksLikeHTML([]byte(`{"html":"<b>not a page</b>"}`)))
	assert.False(t, LooksLikeHTML(nil))
}

func TestIsRateLimitMessage(t *testing.T) {
	assert.True(t, IsRateLimitMessage("Resource has been exhausted (e.g. check quota)."))
	assert.True(t, IsRateLimitMessage("RESOURCE_EXHAUSTED"))
	assert.True(t, IsRateLimitMessage("Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."))
	assert.False(t, IsRateLimitMessage("API key not valid"))
}
