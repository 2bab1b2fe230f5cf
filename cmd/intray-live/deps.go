package main

import (
	"context"
	"sync"

	"github.com/cristianoliveira/intray-live/cmd"
	"github.com/cristianoliveira/intray-live/internal/api"
	"github.com/cristianoliveira/intray-live/internal/app"
	"github.com/cristianoliveira/intray-live/internal/config"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	"github.com/cristianoliveira/intray-live/internal/hooks"
	"github.com/cristianoliveira/intray-live/internal/logging"
	"github.com/cristianoliveira/intray-live/internal/state"
	tuiapp "github.com/cristianoliveira/intray-live/internal/tui/app"
)

// liveClient builds the API client on first use, after the root command
// has loaded the configuration.
type liveClient struct {
	once   sync.Once
	client *api.Client
	err    error
}

func (l *liveClient) api() (*api.Client, error) {
	l.once.Do(func() {
		l.client, l.err = app.NewClient(app.ConfigFromGlobal(), logging.GetGlobal())
	})
	return l.client, l.err
}

func (l *liveClient) Count(ctx context.Context) (int, error) {
	c, err := l.api()
	if err != nil {
		return 0, err
	}
	return c.Count(ctx)
}

func (l *liveClient) List(ctx context.Context, filter domain.Filter, limit int) ([]domain.Notification, error) {
	c, err := l.api()
	if err != nil {
		return nil, err
	}
	return c.List(ctx, filter, limit)
}

func (l *liveClient) MarkRead(ctx context.Context, id string) (bool, error) {
	c, err := l.api()
	if err != nil {
		return false, err
	}
	return c.MarkRead(ctx, id)
}

func (l *liveClient) MarkAllRead(ctx context.Context) (bool, error) {
	c, err := l.api()
	if err != nil {
		return false, err
	}
	return c.MarkAllRead(ctx)
}

// NewFollowSession builds a live session that reports alerts on the console.
// Pushed notifications are printed by the follow use-case, so toasts are dropped.
func (l *liveClient) NewFollowSession() (app.FollowSession, error) {
	alerts := errors.NewDefaultCLIHandler()
	alerts.SetQuiet(config.GetBool("quiet", false))
	s, err := app.NewSession(app.ConfigFromGlobal(), app.SessionOptions{
		Alerts: alerts,
		Toasts: state.AlerterFunc(func(domain.Notification) {}),
		Logger: logging.GetGlobal(),
		Hooks:  hooks.FromGlobalConfig(logging.GetGlobal()),
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (l *liveClient) Version() string {
	return cmd.GetVersion()
}

var client = &liveClient{}

var tuiClient = tuiapp.NewDefaultClient(nil, nil)
