// Package status renders a one-line unread summary for shell prompts and
// terminal status bars.
package status

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/formatter"
)

// Built-in formats. Any other value is taken as a formatter template or
// preset name.
const (
	FormatCompact   = "compact"
	FormatDetailed  = "detailed"
	FormatCountOnly = "count-only"
)

const bell = "🔔"

// Client is the API surface the status line reads.
type Client interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, filter domain.Filter, limit int) ([]domain.Notification, error)
}

// Options holds the status line parameters.
type Options struct {
	Format string
	// Color wraps compact output in ANSI color when there are unread items.
	Color bool
	Now   func() time.Time
}

// Render returns the status line, or "" when nothing is unread.
func Render(ctx context.Context, client Client, opts Options) (string, error) {
	if opts.Format == "" {
		opts.Format = FormatCompact
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	total, err := client.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("status: %w", err)
	}
	if total == 0 {
		return "", nil
	}

	switch opts.Format {
	case FormatCountOnly:
		return strconv.Itoa(total), nil
	case FormatCompact:
		if opts.Color {
			return fmt.Sprintf("%s%s %d%s", colors.Yellow, bell, total, colors.Reset), nil
		}
		return fmt.Sprintf("%s %d", bell, total), nil
	}

	unread, err := client.List(ctx, domain.FilterUnread, 0)
	if err != nil {
		return "", fmt.Errorf("status: %w", err)
	}
	if opts.Format == FormatDetailed {
		return detailed(unread), nil
	}
	return templated(opts.Format, total, unread, opts.Now())
}

// detailed counts unread notifications per category, in category order.
func detailed(unread []domain.Notification) string {
	counts := make(map[domain.Category]int)
	for _, n := range unread {
		counts[n.Category]++
	}
	parts := make([]string, 0, len(counts))
	for _, c := range domain.Categories {
		if counts[c] > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", shortCategory(c), counts[c]))
		}
	}
	return strings.Join(parts, " ")
}

// templated renders format, a template or preset name, against the newest
// unread notification.
func templated(format string, total int, unread []domain.Notification, now time.Time) (string, error) {
	tmpl := format
	if !strings.Contains(format, "${") {
		preset, err := formatter.NewPresetRegistry().Get(format)
		if err != nil {
			return "", fmt.Errorf("status: unknown format: %s", format)
		}
		tmpl = preset.Template
	}
	ctx := formatter.VariableContext{UnreadCount: total, Now: now}
	if len(unread) > 0 {
		ctx.Notification = unread[0]
	}
	out, err := formatter.NewTemplateEngine().Substitute(tmpl, ctx)
	if err != nil {
		return "", fmt.Errorf("status: %w", err)
	}
	return out, nil
}

// shortCategory abbreviates c to the initials of its words.
func shortCategory(c domain.Category) string {
	var b strings.Builder
	for _, word := range strings.Split(strings.ToLower(c.String()), "_") {
		if word != "" {
			b.WriteByte(word[0])
		}
	}
	return b.String()
}
