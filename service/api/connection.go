package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	sm "pnlanalyzer/service/models"
)

const (
	schemeHttps = "https"
	userAgent   = "Mozilla/5.0 (compatible; pnlanalyzer/1.0)"

	// bodies larger than this are not statements
	maxBodyBytes = 8 << 20
)

type Connection interface {
	Request(ctx context.Context, endpoint *url.URL) (*http.Response, error)
}

type ClientHost struct {
	client  *http.Client
	scheme  string
	host    string
	limiter *rate.Limiter
}

type Client struct {
	Connection Connection
	ApiKey     string
}

func (conn *ClientHost) Request(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	if conn.limiter != nil {
		if err := conn.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: waiting for rate limit on %s: %w", sm.ErrUnavailable, conn.host, err)
		}
	}

	endpoint.Scheme = conn.scheme
	endpoint.Host = conn.host

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building request to %s: %w", conn.host, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	return conn.client.Do(req)
}

// ClientFactory builds a client for host. requestsPerMinute <= 0 disables rate limiting.
func ClientFactory(host string, apiKey string, timeout time.Duration, requestsPerMinute int) *Client {
	client := &http.Client{
		Timeout: timeout,
	}

	clientHost := &ClientHost{
		client: client,
		scheme: schemeHttps,
		host:   host,
	}

	if requestsPerMinute > 0 {
		clientHost.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}

	return &Client{
		Connection: clientHost,
		ApiKey:     apiKey,
	}
}

// Get issues the request and reads the body. Transport failures and unexpected status
// codes come back as ErrUnavailable, a 404 as ErrNotFound.
func (c *Client) Get(ctx context.Context, endpoint *url.URL, symbol string) ([]byte, error) {
	response, err := c.Connection.Request(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: request for %s failed: %w", sm.ErrUnavailable, symbol, err)
	}

	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: error reading response body for %s: %w", sm.ErrUnavailable, symbol, err)
	}

	switch {
	case response.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no financial statements found for symbol %s", sm.ErrNotFound, symbol)
	case response.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: provider rate limit hit for %s", sm.ErrUnavailable, symbol)
	case response.StatusCode < 200 || response.StatusCode > 299:
		return nil, fmt.Errorf("%w: provider returned %d for %s: %s", sm.ErrUnavailable, response.StatusCode, symbol, Preview(body))
	}

	return body, nil
}

// Preview trims a response body for error messages
func Preview(body []byte) string {
	const n = 120
	if len(body) > n {
		return string(body[:n])
	}
	return string(body)
}
