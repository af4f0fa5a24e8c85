package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

var (
	// ErrNoData means the upstream produced nothing usable. Callers substitute a default.
	ErrNoData = errors.New("no data")
	// ErrRateLimited means the upstream is throttling us. It is a kind of ErrNoData.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrNoData)
)

const maxBodyBytes = 4 << 20

// Config describes one upstream API.
type Config struct {
	Name    string
	Timeout time.Duration
	RPS     float64
	Burst   int
	Proxy   string
}

// Client performs rate-limited, circuit-broken JSON requests against one upstream.
type Client struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPClient builds an http.Client with optional proxy support.
func NewHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// NewClient creates a Client. Zero RPS disables rate limiting.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	st := gobreaker.Settings{
		Name:         cfg.Name,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		IsSuccessful: breakerSuccess,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	}

	return &Client{
		name:    cfg.Name,
		http:    NewHTTPClient(cfg.Timeout, cfg.Proxy),
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

// requestError is a failure of one request, such as an unknown symbol or a
// payload off schema. It says nothing about the upstream's health.
type requestError struct{ err error }

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// breakerSuccess reports which outcomes leave the breaker closed: transport
// errors, 5xx and throttling count as failures, per-request errors do not.
func breakerSuccess(err error) bool {
	var re *requestError
	return err == nil || errors.As(err, &re) || errors.Is(err, context.Canceled)
}

// Name returns the upstream name.
func (c *Client) Name() string { return c.name }

// GetJSON fetches rawURL and decodes the JSON body into out.
// Every failure is reported as ErrNoData or ErrRateLimited.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: wait for rate limiter: %w", c.name, errors.Join(ErrNoData, err))
	}

	_, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, &requestError{fmt.Errorf("%w: build request: %v", ErrNoData, err)}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; HypeSentinel/1.0)")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoData, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrNoData, err)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: status 429", ErrRateLimited)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, &requestError{fmt.Errorf("%w: status %d", ErrNoData, resp.StatusCode)}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%w: status %d", ErrNoData, resp.StatusCode)
		}
		if LooksLikeHTML(body) {
			return nil, fmt.Errorf("%w: html body", ErrRateLimited)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return nil, &requestError{fmt.Errorf("%w: decode: %v", ErrNoData, err)}
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %v", c.name, ErrNoData, err)
	}
	return fmt.Errorf("%s: %w", c.name, err)
}
