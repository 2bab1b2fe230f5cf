// Package state holds the bubbletea model for the live notification TUI.
package state

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	appstate "github.com/cristianoliveira/intray-live/internal/state"
)

// ChangeMsg carries a synchronizer change into the update loop.
type ChangeMsg struct {
	Change appstate.Change
}

// ConnMsg carries a live channel state change.
type ConnMsg struct {
	State domain.ConnectionState
}

// ToastMsg carries a new footer toast.
type ToastMsg struct {
	Message errors.Message
}

// clearToastMsg clears the toast shown at the given instant.
type clearToastMsg struct {
	message errors.Message
}

// ActionDoneMsg reports the outcome of a mark-read or filter action.
type ActionDoneMsg struct {
	Op  string
	Err error
}

// StartedMsg is sent once the session has started.
type StartedMsg struct {
	Err error
}

// Events bridges callbacks from session goroutines into the bubbletea
// update loop. Sends block until the model consumes them or Close is called.
type Events struct {
	ch     chan tea.Msg
	done   chan struct{}
	once   sync.Once
	alerts *errors.TUIHandler
}

// NewEvents creates the bridge. Its Alerts handler forwards every toast.
func NewEvents() *Events {
	e := &Events{
		ch:   make(chan tea.Msg, eventBuffer),
		done: make(chan struct{}),
	}
	e.alerts = errors.NewTUIHandler(func(msg errors.Message) {
		e.Send(ToastMsg{Message: msg})
	})
	return e
}

// Alerts returns the alert sink to hand to the session.
func (e *Events) Alerts() *errors.TUIHandler {
	return e.alerts
}

// Notify shows a pushed notification as an info toast.
func (e *Events) Notify(n domain.Notification) {
	e.alerts.Info("New: " + n.Title)
}

// Send delivers msg to the model. It returns false after Close.
func (e *Events) Send(msg tea.Msg) bool {
	select {
	case e.ch <- msg:
		return true
	case <-e.done:
		return false
	}
}

// Close unblocks pending senders. Call it before stopping the session.
func (e *Events) Close() {
	e.once.Do(func() { close(e.done) })
}

// wait returns a command that blocks for the next bridged message.
func (e *Events) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-e.ch:
			return msg
		case <-e.done:
			return nil
		}
	}
}

func actionCmd(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return ActionDoneMsg{Op: op, Err: fn(ctx)}
	}
}
