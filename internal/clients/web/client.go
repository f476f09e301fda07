package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "careers-crawler/1.0"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches and parses company pages. A rate limiter, when set,
// provides the per-request delay that keeps the crawler polite.
type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	userAgent   string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		userAgent:  defaultUserAgent,
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) SetUserAgent(userAgent string) {
	c.userAgent = userAgent
}

// Get fetches url and returns the parsed page. The page's URL is the
// final URL after redirects, not the requested one.
func (c *Client) Get(ctx context.Context, url string) (*Page, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to %v failed with status %v", url, resp.StatusCode)
	}

	page, err := NewPageFromHTML(resp.Request.URL, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing response body: %v", err)
	}
	page.StatusCode = resp.StatusCode
	return page, nil
}
