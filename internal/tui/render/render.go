// Package render draws the pieces of the notification TUI as strings.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	"github.com/cristianoliveira/intray-live/internal/format"
)

const (
	markerWidth          = 1
	ageWidth             = 4
	categoryWidth        = 18
	spacesBetweenColumns = 6
	defaultTitleWidth    = 50
	// PanelWidth is the width of the dropdown side panel.
	PanelWidth = 36
)

var (
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))
	selectedRow  = lipgloss.NewStyle().Background(lipgloss.Color(ansiColorNumber(colors.Blue))).Foreground(lipgloss.Color("0"))
	unreadStyle  = lipgloss.NewStyle().Bold(true)
	activeTab    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Cyan)))
	inactiveTab  = dimStyle
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1)
	badgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color(ansiColorNumber(colors.Red))).Padding(0, 1)
	connStyles   = map[domain.ConnectionState]lipgloss.Style{
		domain.Connected:    lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Green))),
		domain.Connecting:   lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow))),
		domain.Disconnected: lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow))),
		domain.Exhausted:    lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Red))),
	}
	toastStyles = map[errors.MessageType]lipgloss.Style{
		errors.MessageTypeError:   lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Red))),
		errors.MessageTypeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow))),
		errors.MessageTypeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Blue))),
		errors.MessageTypeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Green))),
	}
)

// HeaderState defines the inputs needed to render the header line.
type HeaderState struct {
	Badge int
	// BadgeVisible hides the count when nothing is unread.
	BadgeVisible bool
	Conn         domain.ConnectionState
	Width        int
}

// Header renders the title, the unread badge and the connection state.
func Header(state HeaderState) string {
	left := titleStyle.Render("intray-live")
	if state.BadgeVisible {
		left += " " + badgeStyle.Render(fmt.Sprintf("%d", state.Badge))
	}

	style, ok := connStyles[state.Conn]
	if !ok {
		style = dimStyle
	}
	right := style.Render("● " + state.Conn.String())

	gap := state.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// Tabs renders the read filter tabs with active highlighted.
func Tabs(active domain.Filter) string {
	tabs := make([]string, 0, len(domain.Filters))
	for i, f := range domain.Filters {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == active {
			tabs = append(tabs, activeTab.Render(label))
			continue
		}
		tabs = append(tabs, inactiveTab.Render(label))
	}
	return strings.Join(tabs, "   ")
}

// RowState defines the inputs needed to render a notification row.
type RowState struct {
	Notification domain.Notification
	Width        int
	Selected     bool
	Now          time.Time
}

// Row renders a single notification row.
func Row(state RowState) string {
	n := state.Notification
	titleWidth := calculateTitleWidth(state.Width)

	row := fmt.Sprintf("%-*s  %-*s  %-*s  %s",
		markerWidth, format.Marker(n),
		ageWidth, calculateAge(n.CreatedAt, state.Now),
		categoryWidth, truncate(n.Category.String(), categoryWidth),
		truncate(n.Title, titleWidth),
	)

	switch {
	case state.Selected:
		return selectedRow.Render(row)
	case !n.Read:
		return unreadStyle.Render(row)
	default:
		return dimStyle.Render(row)
	}
}

// Loading renders the list placeholder while a reload is in flight.
func Loading() string {
	return dimStyle.Render("Loading notifications...")
}

// Empty renders the empty-list placeholder.
func Empty() string {
	return dimStyle.Render("No notifications found")
}

// Dropdown renders the unread preview panel.
func Dropdown(items []domain.Notification, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Latest unread"))
	if len(items) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("No new notifications"))
	}
	inner := PanelWidth - 4
	for _, n := range items {
		b.WriteString("\n")
		b.WriteString(unreadStyle.Render(truncate(n.Title, inner)))
		if n.Message != "" {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(truncate(n.Message, inner)))
		}
	}
	style := panelStyle.Width(PanelWidth - 2)
	if height > 2 {
		style = style.Height(height - 2)
	}
	return style.Render(b.String())
}

// Footer renders the active toast, or the help line when there is none.
func Footer(toast *errors.Message, help string) string {
	if toast == nil {
		return dimStyle.Render(help)
	}
	style, ok := toastStyles[toast.Type]
	if !ok {
		style = dimStyle
	}
	return style.Render(toast.Text)
}

func calculateTitleWidth(width int) int {
	fixed := markerWidth + ageWidth + categoryWidth + spacesBetweenColumns
	if width == 0 || width-fixed < 10 {
		return defaultTitleWidth
	}
	return width - fixed
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}

func calculateAge(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if now.IsZero() {
		now = time.Now()
	}

	duration := now.Sub(t)
	if duration < 0 {
		duration = 0
	}

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh", int(duration.Hours()))
	}
	return fmt.Sprintf("%dd", int(duration.Hours()/24))
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
