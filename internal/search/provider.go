// Package search matches notifications against a text query. Substring,
// regex and token strategies share the Provider interface so the list
// command and the follow printer filter the same way.
package search

import (
	"fmt"

	"github.com/cristianoliveira/intray-live/internal/domain"
)

// Searchable fields.
const (
	FieldTitle    = "title"
	FieldMessage  = "message"
	FieldCategory = "category"
	FieldID       = "id"
)

// Provider reports whether a notification matches a query.
type Provider interface {
	Match(n domain.Notification, query string) bool
	Name() string
}

// Options configures a provider.
type Options struct {
	CaseInsensitive bool
	Fields          []string
}

// DefaultOptions searches title and message, case-sensitively.
func DefaultOptions() Options {
	return Options{Fields: []string{FieldTitle, FieldMessage}}
}

// Option modifies Options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValue returns the text of field for n, or "" for unknown fields.
func fieldValue(n domain.Notification, field string) string {
	switch field {
	case FieldTitle:
		return n.Title
	case FieldMessage:
		return n.Message
	case FieldCategory:
		return n.Category.String()
	case FieldID:
		return n.ID
	}
	return ""
}

// Provider names accepted by New.
const (
	ModeSubstring = "substring"
	ModeRegex     = "regex"
	ModeToken     = "token"
)

// New returns the provider for mode.
func New(mode string, opts ...Option) (Provider, error) {
	switch mode {
	case "", ModeSubstring:
		return NewSubstringProvider(opts...), nil
	case ModeRegex:
		return NewRegexProvider(opts...), nil
	case ModeToken:
		return NewTokenProvider(opts...), nil
	}
	return nil, fmt.Errorf("unknown search mode %q", mode)
}

// Filter returns the notifications in items that match query, keeping
// their order.
func Filter(p Provider, items []domain.Notification, query string) []domain.Notification {
	if query == "" {
		return items
	}
	out := make([]domain.Notification, 0, len(items))
	for _, n := range items {
		if p.Match(n, query) {
			out = append(out, n)
		}
	}
	return out
}
