// Package format renders notifications for the CLI.
package format

import (
	"io"

	"github.com/cristianoliveira/intray-live/internal/domain"
)

// Formatter writes a list of notifications.
type Formatter interface {
	FormatNotifications(notifications []domain.Notification, writer io.Writer) error
}

// FormatterType names an output style.
type FormatterType string

const (
	// FormatterTypeSimple shows state, ID, time and title per line.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable shows notifications in columns with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeCompact shows only titles and messages.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON shows notifications in their wire shape.
	FormatterTypeJSON FormatterType = "json"
)

// FormatterTypes lists the accepted --format values.
var FormatterTypes = []FormatterType{FormatterTypeSimple, FormatterTypeTable, FormatterTypeCompact, FormatterTypeJSON}

// NewFormatter creates a formatter of the given type. Unknown types fall
// back to simple.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeTable:
		return NewTableFormatter()
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewSimpleFormatter()
	}
}

// IsValid reports whether name is an accepted formatter type.
func IsValid(name string) bool {
	for _, ft := range FormatterTypes {
		if string(ft) == name {
			return true
		}
	}
	return false
}
