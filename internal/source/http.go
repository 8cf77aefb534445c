package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/amishk599/internwatch/internal/model"
)

const (
	primaryUA   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	secondaryUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"

	primaryReferer   = "https://www.google.com/"
	secondaryReferer = "https://www.bing.com/"

	// Consecutive failures for a URL before switching to the secondary
	// UA/Referer pair. Some of these sites block the first UA under load.
	uaSwitchThreshold = 2
)

// Client issues GETs with browser-like headers and maps non-2xx responses to
// model.HTTPError so the retry decorator can inspect status and Retry-After.
// After repeated failures for the same URL it rotates to a secondary
// UA/Referer pair.
type Client struct {
	hc *http.Client

	mu       sync.Mutex
	failures map[string]int // consecutive failures per URL
}

// NewClient wraps the given http.Client. The caller owns timeouts.
func NewClient(hc *http.Client) *Client {
	return &Client{
		hc:       hc,
		failures: make(map[string]int),
	}
}

// Get fetches url and returns the response body as a string. Extra headers
// override the defaults. Non-2xx statuses return *model.HTTPError.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}

	ua, referer := primaryUA, primaryReferer
	c.mu.Lock()
	if c.failures[url] >= uaSwitchThreshold {
		ua, referer = secondaryUA, secondaryReferer
	}
	c.mu.Unlock()

	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", referer)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.recordFailure(url)
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.recordFailure(url)
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("get %s", url),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure(url)
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}

	c.mu.Lock()
	delete(c.failures, url)
	c.mu.Unlock()
	return string(body), nil
}

func (c *Client) recordFailure(url string) {
	c.mu.Lock()
	c.failures[url]++
	c.mu.Unlock()
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
