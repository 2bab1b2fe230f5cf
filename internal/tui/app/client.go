// Package app provides TUI application adapters for command wiring.
package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	liveapp "github.com/cristianoliveira/intray-live/internal/app"
	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/config"
	"github.com/cristianoliveira/intray-live/internal/errors"
	"github.com/cristianoliveira/intray-live/internal/hooks"
	"github.com/cristianoliveira/intray-live/internal/logging"
	appstate "github.com/cristianoliveira/intray-live/internal/state"
	"github.com/cristianoliveira/intray-live/internal/tui/state"
)

// ProgramRunner defines the interface for running a bubbletea program.
type ProgramRunner interface {
	Run(model tea.Model) error
}

// DefaultProgramRunner runs the model full screen.
type DefaultProgramRunner struct{}

// NewDefaultProgramRunner creates a new DefaultProgramRunner.
func NewDefaultProgramRunner() *DefaultProgramRunner {
	return &DefaultProgramRunner{}
}

// Run starts a bubbletea program with the given model.
func (r *DefaultProgramRunner) Run(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Session is the live session the TUI drives and stops on exit.
type Session interface {
	state.Controller
	Stop()
}

// SessionFactory builds a session reporting alerts and pushed
// notifications to the given sinks.
type SessionFactory func(alerts errors.ErrorHandler, toasts appstate.Alerter) (Session, error)

// Client defines dependencies needed by the watch command.
type Client interface {
	Run(ctx context.Context) error
}

// DefaultClient builds a session and runs the TUI over it.
type DefaultClient struct {
	newSession SessionFactory
	runner     ProgramRunner
}

// NewDefaultClient creates a TUI client.
// If newSession is nil, sessions are built from the global configuration.
// If runner is nil, a DefaultProgramRunner is used.
func NewDefaultClient(newSession SessionFactory, runner ProgramRunner) *DefaultClient {
	if newSession == nil {
		newSession = DefaultSessionFactory
	}
	if runner == nil {
		runner = NewDefaultProgramRunner()
	}
	return &DefaultClient{newSession: newSession, runner: runner}
}

// DefaultSessionFactory builds a live session from the global configuration.
func DefaultSessionFactory(alerts errors.ErrorHandler, toasts appstate.Alerter) (Session, error) {
	s, err := liveapp.NewSession(liveapp.ConfigFromGlobal(), liveapp.SessionOptions{
		Alerts: alerts,
		Toasts: toasts,
		Logger: logging.GetGlobal(),
		Hooks:  hooks.FromGlobalConfig(logging.GetGlobal()),
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Run builds the session, runs the TUI until the user quits and stops
// the session.
func (d *DefaultClient) Run(ctx context.Context) error {
	events := state.NewEvents()
	session, err := d.newSession(events.Alerts(), events)
	if err != nil {
		events.Close()
		return fmt.Errorf("watch: %w", err)
	}

	model := state.NewModel(ctx, session, events)
	model.SetToastDuration(config.GetDuration("toast_duration", state.DefaultToastDuration))
	err = d.runner.Run(model)
	model.Close()
	session.Stop()

	if err != nil {
		colors.Error(fmt.Sprintf("Error running TUI: %v", err))
		return err
	}
	return nil
}
