package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the default GitHub API base URL.
	DefaultBaseURL = "https://api.github.com"

	// TokenEnv is the environment variable for the GitHub token.
	TokenEnv = "GITHUB_TOKEN"

	// DefaultTimeout bounds every HTTP request issued by the client.
	DefaultTimeout = 30 * time.Second
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the GitHub API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets a custom HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimitTracking enables rate limit tracking.
func WithRateLimitTracking(enabled bool) ClientOption {
	return func(c *Client) {
		if enabled && c.rateLimitTracker == nil {
			c.rateLimitTracker = NewRateLimitTracker()
		}
	}
}

// WithRetryConfig configures retry behavior for the raw HTTP path. The
// reconciliation operations never retry mutations; this only covers simple
// reads issued through Do.
func WithRetryConfig(config *RetryConfig) ClientOption {
	return func(c *Client) {
		c.retryConfig = config
	}
}

// Client wraps the GitHub API for the reconciliation pipeline.
//
// It supports both direct HTTP access via NewRequest/Do and a lazy-loaded
// go-github client for the typed repository operations. Rate limit tracking
// is optional and enabled via WithRateLimitTracking.
type Client struct {
	token            string
	baseURL          string
	httpClient       *http.Client
	timeout          time.Duration
	githubClient     *github.Client
	rateLimitTracker *RateLimitTracker
	retryConfig      *RetryConfig
}

// NewClient creates a new GitHub API client with the given token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient.Timeout = c.timeout

	return c
}

// NewClientFromEnv creates a new client using the token from the environment.
func NewClientFromEnv(opts ...ClientOption) (*Client, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("%s environment variable is required", TokenEnv)
	}

	return NewClient(token, opts...), nil
}

// Token returns the client's authentication token.
func (c *Client) Token() string {
	return c.token
}

// RateLimitStatus returns the current rate limit status, zero when tracking
// is disabled.
func (c *Client) RateLimitStatus() RateLimitStatus {
	if c.rateLimitTracker == nil {
		return RateLimitStatus{}
	}
	return c.rateLimitTracker.GetStatus()
}

// GitHubClient returns the underlying go-github client (lazy-loaded).
func (c *Client) GitHubClient() *github.Client {
	if c.githubClient == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token})
		tc := oauth2.NewClient(context.Background(), ts)
		if base := c.httpClient.Transport; base != nil {
			// Route go-github through the configured transport (e.g. a test
			// recorder) while keeping the oauth2 header injection.
			if ot, ok := tc.Transport.(*oauth2.Transport); ok {
				ot.Base = base
			}
		}
		c.githubClient = github.NewClient(tc)

		if c.baseURL != DefaultBaseURL && c.baseURL != "" {
			baseURL := c.baseURL
			if baseURL[len(baseURL)-1] != '/' {
				baseURL += "/"
			}
			if parsedURL, err := url.Parse(baseURL); err == nil {
				c.githubClient.BaseURL = parsedURL
			}
		}
	}
	return c.githubClient
}

// NewRequest creates a new HTTP request with authentication headers set.
func (c *Client) NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)
	return req, nil
}

// Do sends an HTTP request and decodes the response into result when it is
// non-nil.
func (c *Client) Do(req *http.Request, result interface{}) (*ClientResponse, error) {
	var lastErr error

	if c.rateLimitTracker != nil {
		if err := c.rateLimitTracker.WaitForRateLimitReset(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	maxAttempts := 1
	if c.retryConfig != nil {
		maxAttempts = c.retryConfig.MaxAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.retryConfig.GetDelay(attempt - 1)
			select {
			case <-time.After(delay):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err

			if c.retryConfig != nil && IsRetryableError(err) && attempt < maxAttempts-1 {
				continue
			}

			return nil, fmt.Errorf("request failed: %w", err)
		}

		if c.rateLimitTracker != nil {
			c.rateLimitTracker.Update(resp)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			apiErr := parseErrorResponse(resp.StatusCode, body)

			if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
				apiErr.RateLimit = rateLimitFromHeaders(resp.Header)
			}

			if c.retryConfig != nil && c.retryConfig.ShouldRetry(resp.StatusCode) && attempt < maxAttempts-1 {
				lastErr = apiErr
				continue
			}

			return nil, apiErr
		}

		clientResp := &ClientResponse{Response: resp}

		if result != nil {
			if err := clientResp.DecodeJSON(result); err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
		}

		return clientResp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// setHeaders sets common headers for GitHub API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
}

// ClientResponse wraps an HTTP response with decode helpers.
type ClientResponse struct {
	*http.Response
	closeOnce sync.Once
}

// DecodeJSON decodes the response body as JSON and closes it.
func (r *ClientResponse) DecodeJSON(v interface{}) error {
	defer r.Close()
	return json.NewDecoder(r.Response.Body).Decode(v)
}

// ReadAll reads the entire response body and closes it.
func (r *ClientResponse) ReadAll() ([]byte, error) {
	defer r.Close()
	return io.ReadAll(r.Response.Body)
}

// Close closes the response body (idempotent).
func (r *ClientResponse) Close() error {
	var err error
	r.closeOnce.Do(func() {
		if r.Response != nil && r.Response.Body != nil {
			err = r.Response.Body.Close()
		}
	})
	return err
}
