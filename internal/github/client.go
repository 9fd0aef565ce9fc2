// Package github implements a minimal read-only client for the GitHub REST
// v3 API: code search, raw file contents, and directory listings.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"vitai/internal/cache"
	"vitai/internal/logging"
)

const (
	acceptTextMatch = "application/vnd.github.v3.text-match+json"
	acceptRaw       = "application/vnd.github.v3.raw"
	acceptJSON      = "application/vnd.github.v3+json"
)

// APIError represents a non-success response from the GitHub API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}

// ErrNotDirectory is returned by ListDirectory when the path resolves to a
// file. The contents endpoint answers with an object for files and an array
// for directories; callers disambiguate through this sentinel.
type ErrNotDirectory struct {
	Path string
}

func (e *ErrNotDirectory) Error() string {
	return fmt.Sprintf("path %q is a file, not a directory", e.Path)
}

// SearchItem is one ranked match from the code search endpoint.
type SearchItem struct {
	Path        string      `json:"path"`
	Score       float64     `json:"score"`
	TextMatches []TextMatch `json:"text_matches"`
}

// TextMatch is a highlighted fragment attached to a search match.
type TextMatch struct {
	Fragment string `json:"fragment"`
}

// Entry is one item in a directory listing.
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"` // "file" or "dir"
}

// Client is a rate-limited GitHub API client. File contents and directory
// listings are cached per path for a few minutes; repeated reads of the same
// file, a common planner pattern, skip the network entirely. Search is never
// cached, so a refined query always hits the API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter

	contents *cache.Cache[string, string]
	listings *cache.Cache[string, []Entry]

	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRequestsPerMinute replaces the default request rate limit.
func WithRequestsPerMinute(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
		}
	}
}

// NewClient creates a GitHub client. An empty token is allowed; callers must
// check Authenticated before issuing requests.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: "https://api.github.com",
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 5),
		contents:  cache.New[string, string](128, 5*time.Minute),
		listings:  cache.New[string, []Entry](128, 5*time.Minute),
		userAgent: "VitAI/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether an API token is configured.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// SearchCode searches for code in a single repository and returns the ranked
// matches with their highlighted fragments.
func (c *Client) SearchCode(ctx context.Context, owner, repo, query string) ([]SearchItem, error) {
	q := url.QueryEscape(query) + "+repo:" + owner + "/" + repo
	endpoint := fmt.Sprintf("%s/search/code?q=%s", c.baseURL, q)

	body, err := c.get(ctx, endpoint, acceptTextMatch)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []SearchItem `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return result.Items, nil
}

// GetContents fetches the raw content of a file.
func (c *Client) GetContents(ctx context.Context, owner, repo, path string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, escapePath(path))

	if content, ok := c.contents.Get(endpoint); ok {
		logging.Debug("file content served from cache", "endpoint", endpoint)
		return content, nil
	}

	body, err := c.get(ctx, endpoint, acceptRaw)
	if err != nil {
		return "", err
	}

	content := string(body)
	c.contents.Set(endpoint, content)
	return content, nil
}

// ListDirectory fetches a directory listing. When the path names a file the
// endpoint returns a single object instead of an array; that case is
// reported as *ErrNotDirectory.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path string) ([]Entry, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, escapePath(path))

	if entries, ok := c.listings.Get(endpoint); ok {
		logging.Debug("directory listing served from cache", "endpoint", endpoint)
		return entries, nil
	}

	body, err := c.get(ctx, endpoint, acceptJSON)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &ErrNotDirectory{Path: path}
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode directory listing: %w", err)
	}

	c.listings.Set(endpoint, entries)
	return entries, nil
}

// get performs a rate-limited GET against the API.
func (c *Client) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Warn("GitHub API request failed", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// escapePath escapes a repository path for use in a contents URL while
// keeping the path separators intact.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
