package state

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/intray-live/internal/dispatch"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	appstate "github.com/cristianoliveira/intray-live/internal/state"
	"github.com/cristianoliveira/intray-live/internal/tui/render"
)

const (
	headerFooterLines     = 4
	defaultViewportWidth  = 80
	defaultViewportHeight = 22
	panelWidth            = render.PanelWidth
	// minPanelWidth is the terminal width below which the dropdown panel is hidden.
	minPanelWidth    = 100
	// DefaultToastDuration is how long a toast stays in the footer.
	DefaultToastDuration = 5 * time.Second
	eventBuffer      = 64
	actionMarkRead   = "mark-read"
	actionMarkAll    = "mark-all-read"
	actionSetFilter  = "filter"
	actionReloadList = "reload"
)

// Controller is the live session surface the model drives.
type Controller interface {
	Start(ctx context.Context) error
	Subscribe(fn func(appstate.Change)) (unsubscribe func())
	OnStateChange(fn func(domain.ConnectionState))
	Snapshot() appstate.Snapshot
	SetFilter(ctx context.Context, f domain.Filter) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

// Model is the bubbletea model for the live notification TUI.
type Model struct {
	ctx    context.Context
	ctrl   Controller
	events *Events

	uiState *UIState
	keys    keyMap
	help    help.Model

	snap  appstate.Snapshot
	conn  domain.ConnectionState
	toast *errors.Message

	unsubscribe   func()
	now           func() time.Time
	toastDuration time.Duration
}

// NewModel creates the TUI model and subscribes it to ctrl. The session
// must have been built with events.Alerts() and events as its toast sink.
func NewModel(ctx context.Context, ctrl Controller, events *Events) *Model {
	if ctrl == nil {
		panic("NewModel: controller dependency cannot be nil")
	}
	if events == nil {
		panic("NewModel: events dependency cannot be nil")
	}

	m := &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		events:  events,
		uiState: NewUIState(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		snap:    ctrl.Snapshot(),
		now:     time.Now,

		toastDuration: DefaultToastDuration,
	}
	m.unsubscribe = ctrl.Subscribe(func(c appstate.Change) {
		events.Send(ChangeMsg{Change: c})
	})
	ctrl.OnStateChange(func(s domain.ConnectionState) {
		events.Send(ConnMsg{State: s})
	})
	return m
}

// SetToastDuration changes how long toasts stay visible. Non-positive
// durations are ignored.
func (m *Model) SetToastDuration(d time.Duration) {
	if d > 0 {
		m.toastDuration = d
	}
}

// Init starts the session and begins listening for bridged events.
func (m *Model) Init() tea.Cmd {
	start := func() tea.Msg {
		return StartedMsg{Err: m.ctrl.Start(m.ctx)}
	}
	return tea.Batch(start, m.events.wait())
}

// Close stops forwarding session callbacks to the model.
func (m *Model) Close() {
	m.events.Close()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.uiState.SetWidth(msg.Width)
		m.uiState.SetHeight(msg.Height)
		m.help.Width = msg.Width
		m.uiState.UpdateViewportSize(m.showPanel())
		m.updateViewportContent()
		return m, nil
	case ChangeMsg:
		m.applyChange(msg.Change)
		return m, m.events.wait()
	case ConnMsg:
		m.conn = msg.State
		return m, m.events.wait()
	case ToastMsg:
		return m, tea.Batch(m.showToast(msg.Message), m.events.wait())
	case clearToastMsg:
		if m.toast != nil && *m.toast == msg.message {
			m.toast = nil
		}
		return m, nil
	case ActionDoneMsg:
		return m, m.handleActionDone(msg)
	case StartedMsg:
		if msg.Err != nil {
			return m, m.showToast(errors.Message{Text: fmt.Sprintf("Could not start: %v", msg.Err), Type: errors.MessageTypeError, Timestamp: m.now()})
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.uiState.MoveCursorUp()
		m.afterCursorMove()
	case key.Matches(msg, m.keys.Down):
		m.uiState.MoveCursorDown(len(m.snap.List.Items))
		m.afterCursorMove()
	case key.Matches(msg, m.keys.NextFilter):
		return m, m.setFilter(m.snap.List.Filter.Next())
	case key.Matches(msg, m.keys.All):
		return m, m.setFilter(domain.FilterAll)
	case key.Matches(msg, m.keys.Read):
		return m, m.setFilter(domain.FilterRead)
	case key.Matches(msg, m.keys.Unread):
		return m, m.setFilter(domain.FilterUnread)
	case key.Matches(msg, m.keys.MarkRead):
		return m, m.markSelectedRead()
	case key.Matches(msg, m.keys.MarkAllRead):
		return m, actionCmd(m.ctx, actionMarkAll, m.ctrl.MarkAllRead)
	case key.Matches(msg, m.keys.Refresh):
		f := m.snap.List.Filter
		return m, actionCmd(m.ctx, actionReloadList, func(ctx context.Context) error {
			return m.ctrl.SetFilter(ctx, f)
		})
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// Selected returns the notification under the cursor.
func (m *Model) Selected() (domain.Notification, bool) {
	items := m.snap.List.Items
	cursor := m.uiState.GetCursor()
	if cursor < 0 || cursor >= len(items) {
		return domain.Notification{}, false
	}
	return items[cursor], true
}

func (m *Model) markSelectedRead() tea.Cmd {
	n, ok := m.Selected()
	if !ok || n.Read {
		return nil
	}
	id := n.ID
	return actionCmd(m.ctx, actionMarkRead, func(ctx context.Context) error {
		return m.ctrl.MarkRead(ctx, id)
	})
}

func (m *Model) setFilter(f domain.Filter) tea.Cmd {
	if f == m.snap.List.Filter && !m.snap.List.Loading {
		return nil
	}
	m.uiState.ResetCursor()
	return actionCmd(m.ctx, actionSetFilter, func(ctx context.Context) error {
		return m.ctrl.SetFilter(ctx, f)
	})
}

func (m *Model) handleActionDone(msg ActionDoneMsg) tea.Cmd {
	if msg.Err == nil {
		return nil
	}
	// Dispatcher and synchronizer failures are already alerted; only an
	// unacknowledged request is left for the model to surface.
	if stderrors.Is(msg.Err, dispatch.ErrNotAcknowledged) {
		return m.showToast(errors.Message{
			Text:      fmt.Sprintf("%s: %v", msg.Op, msg.Err),
			Type:      errors.MessageTypeWarning,
			Timestamp: m.now(),
		})
	}
	if msg.Op == actionSetFilter || msg.Op == actionReloadList {
		return m.showToast(errors.Message{
			Text:      fmt.Sprintf("Could not load notifications: %v", msg.Err),
			Type:      errors.MessageTypeError,
			Timestamp: m.now(),
		})
	}
	return nil
}

func (m *Model) showToast(msg errors.Message) tea.Cmd {
	m.toast = &msg
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{message: msg}
	})
}

func (m *Model) applyChange(c appstate.Change) {
	prevFilter := m.snap.List.Filter
	m.snap = c.Snapshot
	if m.snap.List.Filter != prevFilter {
		m.uiState.ResetCursor()
	}
	m.uiState.AdjustCursorBounds(len(m.snap.List.Items))
	m.updateViewportContent()
}

func (m *Model) afterCursorMove() {
	m.updateViewportContent()
	m.uiState.EnsureCursorVisible(len(m.snap.List.Items))
}

func (m *Model) showPanel() bool {
	return m.snap.Dropdown.Attached && m.uiState.GetWidth() >= minPanelWidth
}
