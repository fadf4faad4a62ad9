package healthchecks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the hosted healthchecks.io ping endpoint. Self-hosted
// instances pass their own base URL to New.
const DefaultBaseURL = "https://hc-ping.com"

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "hc-runner"
)

// Client issues lifecycle pings for a single check against a
// healthchecks.io-compatible endpoint. Every ping is a single attempt:
// no retries, no backoff.
type Client struct {
	baseURL    string
	checkID    string
	httpClient *http.Client
	userAgent  string
}

type Option func(*Client)

// WithTimeout overrides the default 10s request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient overrides the default http.Client. Primarily useful for testing.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with every ping.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// New constructs a ping client for one check. An empty baseURL selects the
// hosted hc-ping.com endpoint. The check ID is the opaque token from the
// check's ping URL and is required.
func New(baseURL, checkID string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(checkID) == "" {
		return nil, errors.New("check ID is required")
	}

	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	normalizedURL, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: normalizedURL,
		checkID: strings.TrimSpace(checkID),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// PingStart signals that a run has begun. The provider starts measuring
// run duration from this ping.
func (c *Client) PingStart(ctx context.Context, rid, body string) error {
	return c.ping(ctx, "/start", rid, body)
}

// PingSuccess signals that a run finished successfully.
func (c *Client) PingSuccess(ctx context.Context, rid, body string) error {
	return c.ping(ctx, "", rid, body)
}

// PingFail signals that a run failed.
func (c *Client) PingFail(ctx context.Context, rid, body string) error {
	return c.ping(ctx, "/fail", rid, body)
}

// PingExitStatus reports a process exit status; 0 counts as success,
// anything else as failure.
func (c *Client) PingExitStatus(ctx context.Context, rid string, exitStatus int, body string) error {
	if exitStatus < 0 || exitStatus > 255 {
		return fmt.Errorf("exit status %d out of range 0-255", exitStatus)
	}

	return c.ping(ctx, fmt.Sprintf("/%d", exitStatus), rid, body)
}

// Log attaches a log event to the check without changing its state.
func (c *Client) Log(ctx context.Context, rid, body string) error {
	return c.ping(ctx, "/log", rid, body)
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("ping base URL is required")
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid ping base URL: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid ping base URL: %s", raw)
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return strings.TrimSuffix(parsed.String(), "/"), nil
}

func (c *Client) ping(ctx context.Context, suffix, rid, body string) error {
	req, err := c.newRequest(ctx, suffix, rid, body)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}

	return c.do(req)
}

func (c *Client) newRequest(ctx context.Context, suffix, rid, body string) (*http.Request, error) {
	pingURL := c.baseURL + "/" + c.checkID + suffix
	if rid != "" {
		pingURL += "?rid=" + url.QueryEscape(rid)
	}

	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pingURL, payload)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			host := req.URL.Hostname()
			return fmt.Errorf("execute ping: network error contacting %s: %w", host, err)
		}
		if urlErr, ok := err.(*url.Error); ok {
			return fmt.Errorf("execute ping: %s", urlErr.Err)
		}
		return fmt.Errorf("execute ping: %w", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		if len(b) == 0 {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return nil
}
