package app

import (
	"context"
	"fmt"
	"io"

	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/format"
	"github.com/cristianoliveira/intray-live/internal/search"
)

// ListClient defines dependencies required to list notifications.
type ListClient interface {
	List(ctx context.Context, filter domain.Filter, limit int) ([]domain.Notification, error)
}

// ListOptions holds the list parameters.
type ListOptions struct {
	Filter domain.Filter
	Limit  int
	Format string
	// Search keeps only notifications matching the query. SearchMode picks
	// the search provider; empty means substring.
	Search     string
	SearchMode string
	IgnoreCase bool
}

// ListUseCase coordinates list notifications behavior.
type ListUseCase struct {
	client ListClient
}

// NewListUseCase creates a new list use-case.
func NewListUseCase(client ListClient) *ListUseCase {
	if client == nil {
		panic("NewListUseCase: client dependency cannot be nil")
	}
	return &ListUseCase{client: client}
}

// Execute prints notifications according to the provided options.
func (u *ListUseCase) Execute(ctx context.Context, opts ListOptions, w io.Writer) error {
	if opts.Filter == "" {
		opts.Filter = domain.FilterAll
	}
	if !opts.Filter.IsValid() {
		return fmt.Errorf("list: invalid read filter: %s", opts.Filter)
	}
	if opts.Format != "" && !format.IsValid(opts.Format) {
		return fmt.Errorf("list: invalid format: %s", opts.Format)
	}

	var provider search.Provider
	if opts.Search != "" {
		p, err := search.New(opts.SearchMode, search.WithCaseInsensitive(opts.IgnoreCase))
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		if re, ok := p.(*search.RegexProvider); ok {
			if err := re.Validate(opts.Search); err != nil {
				return fmt.Errorf("list: invalid search pattern: %w", err)
			}
		}
		provider = p
	}

	// The limit applies to the matches, so a search fetches everything.
	fetchLimit := opts.Limit
	if provider != nil {
		fetchLimit = 0
	}
	notifications, err := u.client.List(ctx, opts.Filter, fetchLimit)
	if err != nil {
		return fmt.Errorf("list: failed to list notifications: %w", err)
	}
	if provider != nil {
		notifications = search.Filter(provider, notifications, opts.Search)
		if opts.Limit > 0 && len(notifications) > opts.Limit {
			notifications = notifications[:opts.Limit]
		}
	}

	if len(notifications) == 0 && opts.Format != string(format.FormatterTypeJSON) {
		_, _ = fmt.Fprintf(w, "%s%s%s\n", colors.Blue, "No notifications found", colors.Reset)
		return nil
	}
	return format.NewFormatter(format.FormatterType(opts.Format)).FormatNotifications(notifications, w)
}
