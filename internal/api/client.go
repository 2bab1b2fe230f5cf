// Package api is the HTTP fallback for the live channel: the notification
// count, list and mark-read endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/intray-live/internal/csrf"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/logging"
	"github.com/cristianoliveira/intray-live/internal/version"
	"github.com/cristianoliveira/intray-live/internal/wire"
)

// Endpoint paths relative to the base URL.
const (
	PathCount        = "/notifications/ajax/count/"
	PathList         = "/notifications/api/list/"
	PathListFiltered = "/notifications/api/list/filtered/"
	PathMarkRead     = "/notifications/api/mark-read/%s/"
	PathMarkAllRead  = "/notifications/api/mark-all-read/"

	// DefaultWebsocketPath is the live channel path.
	DefaultWebsocketPath = "/ws/notifications/"

	maxBodyBytes = 4 << 20
)

// RequestError is a failed fallback call: a network error, a non-2xx
// status or a body that could not be decoded. It is never retried.
type RequestError struct {
	Op     string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// CSRF supplies the token for POSTs. Nil reads it from the csrftoken
	// cookie only.
	CSRF   csrf.Source
	Jar    http.CookieJar
	Logger logging.Logger
	// HTTPClient overrides the underlying client; its Jar is replaced by Jar
	// when Jar is set.
	HTTPClient *http.Client
}

// Client calls the notification HTTP API.
type Client struct {
	base    *url.URL
	http    *http.Client
	csrf    csrf.Source
	timeout time.Duration
	log     logging.Logger
}

// New creates a Client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	switch {
	case opts.Jar != nil:
		hc.Jar = opts.Jar
	case hc.Jar == nil:
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	c := &Client{
		base:    base,
		http:    hc,
		csrf:    opts.CSRF,
		timeout: opts.Timeout,
		log:     opts.Logger.With("component", "api"),
	}
	return c, nil
}

// SetCSRF replaces the token source for POSTs. Call it before the client
// is shared.
func (c *Client) SetCSRF(src csrf.Source) {
	c.csrf = src
}

// HTTPClient returns the underlying client. Its jar holds the session.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Jar returns the session cookie jar shared with the live channel.
func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// BaseURL returns the server base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// URL resolves path, which may carry a query, against the base URL.
func (c *Client) URL(path string) string {
	u := *c.base
	path, query, _ := strings.Cut(path, "?")
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	u.RawQuery = query
	return u.String()
}

// WebsocketURL derives the live channel URL: ws for http, wss for https.
func (c *Client) WebsocketURL(path string) string {
	if path == "" {
		path = DefaultWebsocketPath
	}
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	return u.String()
}

type countResponse struct {
	Count *int `json:"count"`
}

type listResponse struct {
	Notifications *[]wire.Notification `json:"notifications"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// Count returns the unread notification count.
func (c *Client) Count(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.do(ctx, "count", http.MethodGet, PathCount, nil, &resp); err != nil {
		return 0, err
	}
	if resp.Count == nil {
		return 0, &RequestError{Op: "count", Status: http.StatusOK, Err: fmt.Errorf("missing count")}
	}
	return *resp.Count, nil
}

// List returns notifications matching filter, newest first. limit <= 0
// leaves the page size to the server. The unfiltered endpoint ignores limit.
func (c *Client) List(ctx context.Context, filter domain.Filter, limit int) ([]domain.Notification, error) {
	path := PathList
	if read, ok := filter.ReadParam(); ok {
		q := url.Values{}
		q.Set("read", read)
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		path = PathListFiltered + "?" + q.Encode()
	}

	var resp listResponse
	if err := c.do(ctx, "list", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Notifications == nil {
		return nil, &RequestError{Op: "list", Status: http.StatusOK, Err: fmt.Errorf("missing notifications")}
	}
	list, err := wire.ToDomainList(*resp.Notifications)
	if err != nil {
		return nil, &RequestError{Op: "list", Status: http.StatusOK, Err: err}
	}
	if filter == domain.FilterAll && limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// MarkRead asks the server to mark id read. It reports the server's
// success flag.
func (c *Client) MarkRead(ctx context.Context, id string) (bool, error) {
	if err := domain.ValidateID(id); err != nil {
		return false, &RequestError{Op: "mark-read", Err: err}
	}
	var resp successResponse
	if err := c.do(ctx, "mark-read", http.MethodPost, fmt.Sprintf(PathMarkRead, url.PathEscape(id)), struct{}{}, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// MarkAllRead asks the server to mark every notification read.
func (c *Client) MarkAllRead(ctx context.Context) (bool, error) {
	var resp successResponse
	if err := c.do(ctx, "mark-all-read", http.MethodPost, PathMarkAllRead, struct{}{}, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// do performs one request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", version.UserAgent())
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(csrf.HeaderName, c.csrfToken(ctx))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "op", op, "kind", "RequestError", "error", err)
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("request done", "op", op, "method", method, "status", resp.StatusCode, "elapsed", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		if resp.StatusCode == http.StatusForbidden {
			if inv, ok := c.csrf.(interface{ Invalidate() }); ok {
				inv.Invalidate()
			}
		}
		return &RequestError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// csrfToken returns the token from the configured source, falling back to
// the csrftoken cookie. An empty token is sent when neither has one.
func (c *Client) csrfToken(ctx context.Context) string {
	if c.csrf != nil {
		token, err := c.csrf.Token(ctx)
		if err == nil {
			return token
		}
		c.log.Debug("csrf source failed", "error", err)
	}
	return csrf.FromCookies(c.http.Jar.Cookies(c.base))
}
