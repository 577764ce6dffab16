// Package resilience wraps upstream HTTP calls with retry and circuit
// breaking so a flaky or dead data source degrades one fetch cycle
// instead of hanging the scheduler.
package resilience

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrUpstreamUnavailable is returned when the circuit breaker is open
// and calls are being short-circuited.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Config holds tuning for one upstream client.
type Config struct {
	// Name identifies the upstream for breaker state and errors.
	Name string

	// Timeout bounds a single HTTP attempt. Default 30s.
	Timeout time.Duration

	// MaxRetries bounds retry attempts after the first call. Default 3.
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay. Default 500ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay. Default 10s.
	MaxInterval time.Duration

	// BreakerCooldown is how long an open breaker stays open before
	// probing again. Default 60s.
	BreakerCooldown time.Duration

	// ConsecutiveFailures trips the breaker when reached. Default 5.
	ConsecutiveFailures uint32
}

// Client is an HTTP client with exponential-backoff retry inside a
// circuit breaker. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	cfg        Config
}

// NewClient creates a resilient client for one upstream.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 10 * time.Second
	}
	if cfg.BreakerCooldown == 0 {
		cfg.BreakerCooldown = 60 * time.Second
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		cfg:        cfg,
	}
}

// Do executes the request, retrying transient failures (network errors,
// 5xx, 429) with exponential backoff. The breaker wraps the whole retry
// loop, so once the upstream is declared dead further calls fail fast
// for the rest of the cooldown instead of re-running the backoff
// schedule. Other non-2xx responses are returned to the caller as-is.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.doWithRetry(req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", c.cfg.Name, ErrUpstreamUnavailable)
	}
	return resp, err
}

func (c *Client) doWithRetry(req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0 // retries bounded by count and context, not wall clock

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), req.Context())

	var resp *http.Response
	operation := func() error {
		r, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s: %w", c.cfg.Name, err)
		}
		if r.StatusCode >= http.StatusInternalServerError || r.StatusCode == http.StatusTooManyRequests {
			r.Body.Close()
			return fmt.Errorf("%s: status %d", c.cfg.Name, r.StatusCode)
		}
		resp = r
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return resp, nil
}
