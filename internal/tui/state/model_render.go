package state

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/intray-live/internal/tui/render"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.uiState.GetViewport().Height == 0 {
		m.uiState.UpdateViewportSize(m.showPanel())
		m.updateViewportContent()
	}

	var s strings.Builder
	s.WriteString(render.Header(render.HeaderState{
		Badge:        m.snap.Badge.Count,
		BadgeVisible: m.snap.Badge.Visible,
		Conn:         m.conn,
		Width:        m.uiState.GetWidth(),
	}))
	s.WriteString("\n")
	s.WriteString(render.Tabs(m.snap.List.Filter))
	s.WriteString("\n")

	body := m.uiState.GetViewport().View()
	if m.showPanel() {
		panel := render.Dropdown(m.snap.Dropdown.Items, m.uiState.GetViewport().Height)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", panel)
	}
	s.WriteString(body)

	s.WriteString("\n")
	s.WriteString(render.Footer(m.toast, m.help.View(m.keys)))
	return s.String()
}

// updateViewportContent renders the list rows into the viewport.
func (m *Model) updateViewportContent() {
	vp := m.uiState.GetViewport()
	list := m.snap.List

	switch {
	case list.Loading && len(list.Items) == 0:
		vp.SetContent(render.Loading())
		return
	case len(list.Items) == 0:
		vp.SetContent(render.Empty())
		return
	}

	width := m.uiState.ListWidth(m.showPanel())
	cursor := m.uiState.GetCursor()
	now := m.now()

	var content strings.Builder
	for i, n := range list.Items {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(render.Row(render.RowState{
			Notification: n,
			Width:        width,
			Selected:     i == cursor,
			Now:          now,
		}))
	}
	vp.SetContent(content.String())
}
