package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/wire"
)

// TimeLayout is the timestamp layout used in text output.
const TimeLayout = "2006-01-02 15:04"

// Marker returns the read-state marker for n.
func Marker(n domain.Notification) string {
	if n.Read {
		return "○"
	}
	return "●"
}

// Line renders n on one line, as used by list and follow.
func Line(n domain.Notification) string {
	return fmt.Sprintf("%s %s  %s  %s", Marker(n), n.ID, n.CreatedAt.Local().Format(TimeLayout), Truncate(n.Title, 50))
}

// SimpleFormatter writes one line per notification.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatNotifications formats notifications in simple format.
func (f *SimpleFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	for _, n := range notifications {
		if _, err := fmt.Fprintln(writer, Line(n)); err != nil {
			return err
		}
	}
	return nil
}

// CompactFormatter writes "title: message" per notification.
type CompactFormatter struct{}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatNotifications formats notifications in compact format.
func (f *CompactFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	for _, n := range notifications {
		line := n.Title
		if n.Message != "" {
			line += ": " + n.Message
		}
		if _, err := fmt.Fprintln(writer, Truncate(line, 72)); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter writes notifications as a JSON array in wire shape.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatNotifications formats notifications as JSON.
func (f *JSONFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	out := make([]wire.Notification, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, wire.FromDomain(n))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal notifications to JSON: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer)
	return err
}

// Truncate shortens s to width runes, ending in "..." when cut.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
