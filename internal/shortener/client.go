// Package shortener provides a client for is.gd-style link shortening
// services.
package shortener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"commit-relay/internal/circuitbreaker"
	"commit-relay/internal/common/errors"
	commonhttp "commit-relay/internal/common/http"
	"commit-relay/internal/common/logging"
)

// serviceName labels breaker stats and unavailable errors.
const serviceName = "link shortener"

// Client shortens URLs through the service's simple-format API: a single
// form POST answered with the short URL as the response body.
type Client struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	breaker  *circuitbreaker.GoBreakerAdapter
	logger   logging.Logger
}

// NewClient creates a shortening client for https://{domain}/create.php.
// Calls run through a circuit breaker so a dead service fails fast
// instead of burning the timeout on every webhook.
func NewClient(domain string, timeout time.Duration, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Client{
		endpoint: "https://" + domain + "/create.php",
		timeout:  timeout,
		// Redirect responses count as service output here, so the
		// client must hand them back instead of following them.
		client: commonhttp.NewHTTPClient(
			commonhttp.WithTimeout(timeout),
			commonhttp.WithoutRedirects(),
		),
		breaker: circuitbreaker.NewGoBreaker(serviceName, circuitbreaker.HTTPConfig, logger),
		logger:  logger,
	}
}

// Shorten resolves longURL to a short link. One synchronous call, no
// retries. Any failure (error status, empty body, network error, timeout,
// open breaker) comes back as a typed error; the caller is expected to
// drop the affected notification rather than retry.
func (c *Client) Shorten(ctx context.Context, longURL string) (string, error) {
	var short string

	err := c.breaker.Execute(ctx, func() error {
		result, err := c.post(ctx, longURL)
		if err != nil {
			return err
		}
		short = result
		return nil
	})
	if err != nil {
		return "", err
	}

	c.logger.Debug("Shortened URL",
		logging.Field{Key: "url", Value: longURL},
		logging.Field{Key: "short", Value: short},
	)
	return short, nil
}

// BreakerStats exposes the circuit breaker state for health reporting.
func (c *Client) BreakerStats() circuitbreaker.Stats {
	return c.breaker.Stats()
}

func (c *Client) post(ctx context.Context, longURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{
		"format": {"simple"},
		"url":    {longURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.InternalError("failed to build shorten request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.TimeoutError("link shortening")
		}
		return "", errors.UnavailableError(serviceName, err)
	}
	defer resp.Body.Close()

	// The 2xx/3xx class is success; anything else means the service
	// rejected the URL or is misbehaving.
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", errors.UnavailableError(serviceName, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.UnavailableError(serviceName, err)
	}

	short := strings.TrimSpace(string(body))
	if short == "" {
		return "", errors.UnavailableError(serviceName, fmt.Errorf("empty response body"))
	}
	return short, nil
}
