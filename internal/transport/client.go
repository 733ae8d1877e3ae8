// Package transport sends schema updates to the labelling tool's update
// endpoint and decodes its id-remapping replies.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 4 << 20

// Sender submits one update and returns the decoded response.
type Sender interface {
	Send(ctx context.Context, action Action, params any) (*Response, error)
}

// Compile-time verification that *Client implements Sender
var _ Sender = (*Client)(nil)

// Client posts form-encoded updates to a fixed URL.
type Client struct {
	updateURL  string
	httpClient *http.Client
	timeout    time.Duration
	headers    http.Header
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCSRFToken sends the token the way Django expects it for AJAX posts
func WithCSRFToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.headers.Set("X-CSRFToken", token)
		}
	}
}

// WithHeader adds a header to every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for updateURL, which must be an absolute
// http or https URL.
func NewClient(updateURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(updateURL)
	if err != nil {
		return nil, fmt.Errorf("invalid update URL %q: %w", updateURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid update URL %q: scheme must be http or https", updateURL)
	}

	c := &Client{
		updateURL:  updateURL,
		httpClient: http.DefaultClient,
		timeout:    10 * time.Second,
		headers:    http.Header{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the update endpoint
func (c *Client) URL() string {
	return c.updateURL
}

// Send serialises params to JSON and posts it with action as form fields
// "action" and "params". A response whose status is not "success" is
// returned together with an *UpdateError of code ErrRejected.
func (c *Client) Send(ctx context.Context, action Action, params any) (*Response, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, &UpdateError{
			Code:    ErrEncode,
			Action:  action,
			Message: fmt.Sprintf("failed to encode params for %s", action),
			Err:     err,
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("action", string(action))
	form.Set("params", string(paramsJSON))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.updateURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &UpdateError{Code: ErrEncode, Action: action, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	c.logger.Debug("sending update", "action", action, "url", c.updateURL, "bytes", len(paramsJSON))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		ue := Classify(err)
		ue.Action = action
		return nil, ue
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		ue := Classify(err)
		ue.Action = action
		return nil, ue
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpdateError{
			Code:       ErrHTTPStatus,
			Action:     action,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Update server returned HTTP %d", resp.StatusCode),
			Hint:       hintForStatus(resp.StatusCode),
		}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &UpdateError{
			Code:       ErrDecode,
			Action:     action,
			StatusCode: resp.StatusCode,
			Message:    "Update server reply was not valid JSON",
			Err:        err,
		}
	}

	if !out.Succeeded() {
		return &out, &UpdateError{
			Code:       ErrRejected,
			Action:     action,
			StatusCode: resp.StatusCode,
			Status:     out.Status,
			Message:    fmt.Sprintf("Update %s rejected by server (status %q)", action, out.Status),
		}
	}

	return &out, nil
}

func hintForStatus(code int) string {
	switch {
	case code == http.StatusForbidden:
		return "The server refused the request; check --csrf-token and your session"
	case code == http.StatusNotFound:
		return "Check --update-url"
	case code >= 500:
		return "The server failed to apply the update. Entities loaded with a null id cannot be saved; re-create them or reload the page"
	default:
		return ""
	}
}
