package notes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/log"
)

const (
	// AuthenticatedRateLimit is requests per minute with a token.
	AuthenticatedRateLimit = 30

	// UnauthenticatedRateLimit is requests per minute without a token.
	UnauthenticatedRateLimit = 10

	maxFileSize = 5 << 20
)

// Client lists and fetches notes through the GitHub contents API with rate
// limiting and response caching.
type Client struct {
	rest    *github.Client
	http    *http.Client
	limiter *rate.Limiter
	cache   *responseCache

	mu           sync.Mutex
	requestCount int
	cacheHits    int
}

// NewClient creates a client. An empty token uses anonymous access.
func NewClient(cfg config.GitHubConfig) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, ts)
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		if cfg.Token != "" {
			rateLimit = AuthenticatedRateLimit
		} else {
			rateLimit = UnauthenticatedRateLimit
		}
	}

	return &Client{
		rest:    github.NewClient(httpClient),
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), rateLimit),
		cache:   newResponseCache(DefaultCacheTTL),
	}
}

// SetBaseURL points the client at another API root, such as a GitHub
// Enterprise host.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	c.rest.BaseURL = u
	return nil
}

// List returns the directory entries at path in repo, unfiltered.
func (c *Client) List(ctx context.Context, repo Repo, path string) ([]Entry, error) {
	path = strings.Trim(path, "/")
	cacheKey := fmt.Sprintf("list:%s:%s", repo, path)
	if cached, ok := c.cache.get(cacheKey); ok {
		c.hit()
		return cached.([]Entry), nil
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	file, dir, resp, err := c.rest.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, nil)
	if err != nil {
		if _, ok := err.(*github.RateLimitError); ok && resp != nil {
			return nil, fmt.Errorf("GitHub rate limit exceeded, retry after %v", resp.Rate.Reset.Time)
		}
		return nil, fmt.Errorf("list contents: %w", err)
	}
	if file != nil {
		return nil, fmt.Errorf("list contents: %s is a file", path)
	}
	checkRate(resp)

	entries := make([]Entry, 0, len(dir))
	for _, item := range dir {
		entries = append(entries, Entry{
			Name:        item.GetName(),
			Path:        item.GetPath(),
			Type:        item.GetType(),
			Size:        item.GetSize(),
			DownloadURL: item.GetDownloadURL(),
			HTMLURL:     item.GetHTMLURL(),
		})
	}

	c.cache.set(cacheKey, entries)
	return entries, nil
}

// Fetch downloads raw file content through the authenticated HTTP client.
func (c *Client) Fetch(ctx context.Context, downloadURL string) (string, error) {
	if downloadURL == "" {
		return "", fmt.Errorf("fetch file: no download url")
	}
	cacheKey := "raw:" + downloadURL
	if cached, ok := c.cache.get(cacheKey); ok {
		c.hit()
		return cached.(string), nil
	}

	if err := c.wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch file: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch file: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	content := string(body)
	c.cache.set(cacheKey, content)
	return content, nil
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.clear()
}

// Stats returns how many requests were sent and how many were served from cache.
func (c *Client) Stats() (requests, cacheHits int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestCount, c.cacheHits
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	c.mu.Lock()
	c.requestCount++
	c.mu.Unlock()
	return nil
}

func (c *Client) hit() {
	c.mu.Lock()
	c.cacheHits++
	c.mu.Unlock()
}

func checkRate(resp *github.Response) {
	if resp != nil && resp.Rate.Limit > 0 && resp.Rate.Remaining < 10 {
		log.Printf("github: rate limit low: %d remaining", resp.Rate.Remaining)
	}
}
