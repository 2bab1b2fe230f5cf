package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/domain"
)

// TableColumn is one column of the table output.
type TableColumn struct {
	// Name is the column name displayed in the header.
	Name string

	// Width is the column width in runes.
	Width int

	// Extractor extracts the value from a notification.
	Extractor func(domain.Notification) string
}

// TableFormatter writes notifications in aligned columns.
type TableFormatter struct {
	ShowHeaders bool
	HeaderColor string
	columns     []TableColumn
}

// NewTableFormatter creates a table with state, ID, date, category and title.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		ShowHeaders: true,
		HeaderColor: colors.Blue,
		columns: []TableColumn{
			{Name: "", Width: 1, Extractor: Marker},
			{Name: "ID", Width: 36, Extractor: func(n domain.Notification) string { return n.ID }},
			{Name: "DATE", Width: 16, Extractor: func(n domain.Notification) string {
				return n.CreatedAt.Local().Format(TimeLayout)
			}},
			{Name: "TYPE", Width: 18, Extractor: func(n domain.Notification) string { return n.Category.String() }},
			{Name: "TITLE", Width: 40, Extractor: func(n domain.Notification) string { return n.Title }},
		},
	}
}

// WithColumns adds custom columns to the formatter.
func (f *TableFormatter) WithColumns(columns ...TableColumn) *TableFormatter {
	f.columns = append(f.columns, columns...)
	return f
}

// FormatNotifications formats notifications in table format.
func (f *TableFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	if len(notifications) == 0 {
		return nil
	}
	if f.ShowHeaders {
		if err := f.writeRow(writer, f.HeaderColor, func(c TableColumn) string { return c.Name }); err != nil {
			return err
		}
		if err := f.writeRow(writer, f.HeaderColor, func(c TableColumn) string { return strings.Repeat("-", c.Width) }); err != nil {
			return err
		}
	}
	for _, n := range notifications {
		if err := f.writeRow(writer, "", func(c TableColumn) string { return c.Extractor(n) }); err != nil {
			return err
		}
	}
	return nil
}

func (f *TableFormatter) writeRow(writer io.Writer, color string, cell func(TableColumn) string) error {
	cells := make([]string, len(f.columns))
	for i, col := range f.columns {
		cells[i] = pad(Truncate(cell(col), col.Width), col.Width)
	}
	line := strings.TrimRight(strings.Join(cells, "  "), " ")
	if color != "" {
		line = color + line + colors.Reset
	}
	_, err := fmt.Fprintln(writer, line)
	return err
}

// pad left-aligns s in width runes.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
