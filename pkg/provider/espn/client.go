// Package espn fetches game data from ESPN's public site API and turns
// it into grading snapshots.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the ESPN site API base URL.
	DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports"

	// ESPN has no published limits; stay polite.
	defaultRateLimit = 5.0 // requests per second
	defaultBurst     = 3
)

// sportPaths maps our sport keys to ESPN URL path segments.
var sportPaths = map[string]string{
	"basketball_nba": "basketball/nba",
	"ice_hockey_nhl": "hockey/nhl",
}

// SportPath returns the ESPN path segment for a sport key.
func SportPath(sportKey string) (string, bool) {
	p, ok := sportPaths[sportKey]
	return p, ok
}

// Client is a rate-limited ESPN site API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets custom rate limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new ESPN client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		userAgent: "Mozilla/5.0 (compatible; gradebook/1.0)",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchScoreboard fetches the scoreboard for a sport. A zero date means
// whatever ESPN considers "today".
func (c *Client) FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, sportPath)
	if !date.IsZero() {
		url += "?dates=" + date.Format("20060102")
	}
	return c.fetch(ctx, url)
}

// FetchGameSummary fetches the detailed summary (box score, leaders,
// line scores) for one game.
func (c *Client) FetchGameSummary(ctx context.Context, sportPath, gameID string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/summary?event=%s", c.baseURL, sportPath, gameID)
	return c.fetch(ctx, url)
}

// FetchPlayByPlay fetches the play-by-play feed for one game. ESPN
// serves it inside the summary document under "plays".
func (c *Client) FetchPlayByPlay(ctx context.Context, sportPath, gameID string) (map[string]interface{}, error) {
	return c.FetchGameSummary(ctx, sportPath, gameID)
}

// fetch performs a rate-limited GET and decodes the JSON body.
func (c *Client) fetch(ctx context.Context, url string) (map[string]interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("espn api error %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result, nil
}
