package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"knaben/internal/config"
)

// ErrStatus marks a non-2xx answer from the search site.
var ErrStatus = errors.New("unexpected search status")

const maxPageBytes = 8 << 20

// Client fetches result pages from the configured search site.
type Client struct {
	httpClient *http.Client
	cfg        config.Config
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Search returns the raw HTML of the results page for query. Each call is
// bounded by the configured fetch timeout.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if c.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.SearchURL(query), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: %d for %q after %s", ErrStatus, resp.StatusCode, query, time.Since(start).Round(time.Millisecond))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read search page: %w", err)
	}
	return string(body), nil
}
