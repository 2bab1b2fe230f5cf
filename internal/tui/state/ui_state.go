package state

import (
	"github.com/charmbracelet/bubbles/viewport"
)

// UIState manages the viewport and cursor for the notification list.
type UIState struct {
	viewport viewport.Model
	width    int
	height   int
	cursor   int
}

// NewUIState creates a new UIState instance with default values.
func NewUIState() *UIState {
	return &UIState{
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
		width:    defaultViewportWidth,
		height:   defaultViewportHeight,
	}
}

// GetViewport returns the current viewport model.
func (u *UIState) GetViewport() *viewport.Model {
	return &u.viewport
}

// GetWidth returns the current width of the UI.
func (u *UIState) GetWidth() int {
	return u.width
}

// SetWidth updates the width of the UI.
func (u *UIState) SetWidth(width int) {
	u.width = width
	if width <= 0 {
		u.width = defaultViewportWidth
	}
}

// GetHeight returns the current height of the UI.
func (u *UIState) GetHeight() int {
	return u.height
}

// SetHeight updates the height of the UI.
func (u *UIState) SetHeight(height int) {
	u.height = height
	if height <= 0 {
		u.height = defaultViewportHeight
	}
}

// ListWidth is the width left for the list once the side panel is placed.
func (u *UIState) ListWidth(panel bool) int {
	if !panel {
		return u.width
	}
	return u.width - panelWidth - 1
}

// UpdateViewportSize resizes the viewport to the space between header and footer.
func (u *UIState) UpdateViewportSize(panel bool) {
	viewportHeight := u.height - headerFooterLines
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	u.viewport = viewport.New(u.ListWidth(panel), viewportHeight)
}

// GetCursor returns the current cursor position.
func (u *UIState) GetCursor() int {
	return u.cursor
}

// MoveCursorUp moves the cursor up one position if possible.
func (u *UIState) MoveCursorUp() {
	if u.cursor > 0 {
		u.cursor--
	}
}

// MoveCursorDown moves the cursor down one position if possible.
func (u *UIState) MoveCursorDown(listLen int) {
	if u.cursor < listLen-1 {
		u.cursor++
	}
}

// EnsureCursorVisible scrolls the viewport so the cursor row is shown.
func (u *UIState) EnsureCursorVisible(listLen int) {
	if listLen == 0 {
		return
	}

	lineOffset := u.viewport.YOffset
	viewportHeight := u.viewport.Height

	if u.cursor < lineOffset {
		u.viewport.SetYOffset(u.cursor)
	}
	if u.cursor >= lineOffset+viewportHeight {
		u.viewport.SetYOffset(u.cursor - viewportHeight + 1)
	}
}

// AdjustCursorBounds ensures the cursor is within valid bounds.
func (u *UIState) AdjustCursorBounds(listLen int) {
	if listLen == 0 {
		u.cursor = 0
		return
	}
	if u.cursor >= listLen {
		u.cursor = listLen - 1
	}
	if u.cursor < 0 {
		u.cursor = 0
	}
}

// ResetCursor resets the cursor to the first item.
func (u *UIState) ResetCursor() {
	u.cursor = 0
	u.viewport.GotoTop()
}
