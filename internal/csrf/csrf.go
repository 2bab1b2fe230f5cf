// Package csrf finds the anti-forgery token the server expects on
// state-changing requests.
package csrf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

const (
	// HeaderName is the request header carrying the token.
	HeaderName = "X-CSRFToken"
	// CookieName is the cookie the server sets alongside the page.
	CookieName = "csrftoken"

	metaName  = "csrf-token"
	inputName = "csrfmiddlewaretoken"

	maxPageBytes = 2 << 20
)

// ErrNoToken is returned when no token can be found.
var ErrNoToken = errors.New("csrf token not found")

// Source provides the current token.
type Source interface {
	Token(ctx context.Context) (string, error)
}

// Static is a Source for a configured token.
type Static string

// Token returns the configured token, or ErrNoToken when empty.
func (s Static) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// PageSource fetches an HTML page and extracts the token from its markup,
// falling back to the csrftoken cookie. The token is cached until
// Invalidate is called.
type PageSource struct {
	client  *http.Client
	pageURL string

	mu    sync.Mutex
	token string
}

// NewPageSource creates a source reading pageURL with client. The client
// should carry the session cookie jar.
func NewPageSource(client *http.Client, pageURL string) *PageSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &PageSource{client: client, pageURL: pageURL}
}

// Token returns the cached token, fetching the page on first use.
func (p *PageSource) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" {
		return p.token, nil
	}

	token, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}
	p.token = token
	return token, nil
}

// Invalidate drops the cached token so the next call refetches it.
func (p *PageSource) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
}

func (p *PageSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("csrf page request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch csrf page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if token, err := FromHTML(io.LimitReader(resp.Body, maxPageBytes)); err == nil {
			return token, nil
		}
	}

	if token := p.fromCookie(); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%w (page status %d)", ErrNoToken, resp.StatusCode)
}

func (p *PageSource) fromCookie() string {
	if p.client.Jar == nil {
		return ""
	}
	u, err := url.Parse(p.pageURL)
	if err != nil {
		return ""
	}
	return FromCookies(p.client.Jar.Cookies(u))
}

// FromCookies returns the csrftoken cookie value, or "".
func FromCookies(cookies []*http.Cookie) string {
	for _, c := range cookies {
		if c.Name == CookieName && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// FromHTML extracts the token from page markup. A
// <meta name="csrf-token"> wins over a form's csrfmiddlewaretoken input.
func FromHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse csrf page: %w", err)
	}

	var meta, input string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if meta == "" && getAttr(n, "name") == metaName {
					meta = strings.TrimSpace(getAttr(n, "content"))
				}
			case "input":
				if input == "" && getAttr(n, "name") == inputName {
					input = strings.TrimSpace(getAttr(n, "value"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	switch {
	case meta != "":
		return meta, nil
	case input != "":
		return input, nil
	default:
		return "", ErrNoToken
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
