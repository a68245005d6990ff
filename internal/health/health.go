// Package health checks the HTTP endpoint of the dispatched application
// from inside its container.
package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yoanbernabeu/frankenboot/internal/constants"
)

// Checker performs HTTP health checks against the local application
type Checker struct {
	url      string
	client   *http.Client
	timeout  time.Duration
	retries  int
	interval time.Duration
}

// NewChecker creates a new health checker for url
func NewChecker(url string) *Checker {
	return &Checker{
		url:      url,
		client:   &http.Client{},
		timeout:  constants.HealthCheckTimeout,
		retries:  constants.HealthCheckRetries,
		interval: constants.HealthCheckInterval,
	}
}

// SetTimeout sets the timeout of a single request
func (c *Checker) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SetRetries sets the number of attempts
func (c *Checker) SetRetries(retries int) {
	c.retries = retries
}

// SetInterval sets the interval between retries
func (c *Checker) SetInterval(interval time.Duration) {
	c.interval = interval
}

// Result contains the result of a health check
type Result struct {
	Healthy      bool
	StatusCode   int
	Message      string
	ResponseTime time.Duration
	Attempts     int
}

// Check performs the health check with retries. Any 2xx or 3xx response is
// healthy; redirects are not followed.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	result := &Result{}
	retries := max(c.retries, 1)

	client := *c.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	for attempt := 1; attempt <= retries; attempt++ {
		result.Attempts = attempt

		if attempt > 1 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(c.interval):
			}
		}

		if c.checkOnce(ctx, &client, result) {
			return result, nil
		}
	}

	return result, nil
}

func (c *Checker) checkOnce(ctx context.Context, client *http.Client, result *Result) bool {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.url, nil)
	if err != nil {
		result.Message = fmt.Sprintf("invalid request: %v", err)
		return false
	}
	req.Header.Set("User-Agent", "frankenboot-healthcheck")

	start := time.Now()
	resp, err := client.Do(req)
	result.ResponseTime = time.Since(start)
	if err != nil {
		result.StatusCode = 0
		result.Message = fmt.Sprintf("request failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	result.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Healthy = true
		result.Message = "healthy"
		return true
	}

	result.Message = fmt.Sprintf("HTTP check failed (status: %d)", resp.StatusCode)
	return false
}
