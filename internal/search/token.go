package search

import (
	"strings"

	"github.com/cristianoliveira/intray-live/internal/domain"
)

// TokenProvider splits the query on whitespace and requires every token
// to match some field. The tokens "read" and "unread" filter on the read
// flag instead; giving both cancels them out.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

// Match reports whether n passes the read tokens and every text token.
func (p *TokenProvider) Match(n domain.Notification, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}

	var readOnly, unreadOnly bool
	var tokens []string
	for _, token := range strings.Fields(query) {
		switch strings.ToLower(token) {
		case "read":
			readOnly = true
		case "unread":
			unreadOnly = true
		default:
			if p.opts.CaseInsensitive {
				token = strings.ToLower(token)
			}
			tokens = append(tokens, token)
		}
	}
	if readOnly && unreadOnly {
		readOnly, unreadOnly = false, false
	}
	if readOnly && !n.IsRead() {
		return false
	}
	if unreadOnly && n.IsRead() {
		return false
	}

	for _, token := range tokens {
		if !p.matchToken(n, token) {
			return false
		}
	}
	return true
}

func (p *TokenProvider) matchToken(n domain.Notification, token string) bool {
	for _, field := range p.opts.Fields {
		value := fieldValue(n, field)
		if value == "" {
			continue
		}
		if p.opts.CaseInsensitive {
			value = strings.ToLower(value)
		}
		if strings.Contains(value, token) {
			return true
		}
	}
	return false
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return ModeToken
}
