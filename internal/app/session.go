// Package app wires the live channel, the synchronizer and the
// dispatcher into a session, and holds the one-shot CLI use cases.
package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/cristianoliveira/intray-live/internal/api"
	"github.com/cristianoliveira/intray-live/internal/config"
	"github.com/cristianoliveira/intray-live/internal/csrf"
	"github.com/cristianoliveira/intray-live/internal/dedup"
	"github.com/cristianoliveira/intray-live/internal/dispatch"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	"github.com/cristianoliveira/intray-live/internal/hooks"
	"github.com/cristianoliveira/intray-live/internal/logging"
	"github.com/cristianoliveira/intray-live/internal/state"
	"github.com/cristianoliveira/intray-live/internal/transport"
	"github.com/cristianoliveira/intray-live/internal/wire"
	"golang.org/x/sync/errgroup"
)

// sessionCookieName is the server's session cookie.
const sessionCookieName = "sessionid"

// Config holds everything needed to build a session or an API client.
type Config struct {
	BaseURL          string
	WSPath           string
	CSRFToken        string
	CSRFPagePath     string
	SessionCookie    string
	MaxAttempts      int
	Delay            time.Duration
	HandshakeTimeout time.Duration
	RequestTimeout   time.Duration
	DropdownLimit    int
	ListLimit        int
	Filter           domain.Filter
	// ToastDedup drops repeated toasts for look-alike pushes.
	ToastDedup dedup.Options
}

// ConfigFromGlobal reads a Config from the loaded global configuration.
func ConfigFromGlobal() Config {
	filter, err := domain.ParseFilter(config.Get("default_filter", "all"))
	if err != nil {
		filter = domain.FilterAll
	}
	return Config{
		BaseURL:          config.Get("base_url", "http://localhost:8000"),
		WSPath:           config.Get("ws_path", api.DefaultWebsocketPath),
		CSRFToken:        config.Get("csrf_token", ""),
		CSRFPagePath:     config.Get("csrf_page_path", "/notifications/"),
		SessionCookie:    config.Get("session_cookie", ""),
		MaxAttempts:      config.GetInt("reconnect_max_attempts", transport.DefaultMaxAttempts),
		Delay:            config.GetDuration("reconnect_delay", transport.DefaultDelay),
		HandshakeTimeout: config.GetDuration("handshake_timeout", 10*time.Second),
		RequestTimeout:   config.GetDuration("request_timeout", 10*time.Second),
		DropdownLimit:    config.GetInt("dropdown_limit", state.DefaultDropdownLimit),
		ListLimit:        config.GetInt("list_limit", 0),
		Filter:           filter,
		ToastDedup:       dedup.OptionsFromGlobalConfig(),
	}
}

// NewClient builds the HTTP API client with a session cookie jar and the
// CSRF source chosen by cfg.
func NewClient(cfg Config, log logging.Logger) (*api.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if cfg.SessionCookie != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
		}
		jar.SetCookies(base, []*http.Cookie{{Name: sessionCookieName, Value: cfg.SessionCookie, Path: "/"}})
	}
	hc := &http.Client{Jar: jar}

	client, err := api.New(api.Options{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.RequestTimeout,
		HTTPClient: hc,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	var source csrf.Source = csrf.Static(cfg.CSRFToken)
	if cfg.CSRFToken == "" {
		source = csrf.NewPageSource(hc, client.URL(cfg.CSRFPagePath))
	}
	client.SetCSRF(source)
	return client, nil
}

// Session is one live notification session: an open channel feeding the
// synchronizer, and a dispatcher for user actions.
type Session struct {
	API        *api.Client
	Transport  *transport.Transport
	Sync       *state.Synchronizer
	Dispatcher *dispatch.Dispatcher

	hooks  *hooks.Runner
	log    logging.Logger
	life   context.Context
	cancel context.CancelFunc
}

// SessionOptions holds the collaborators a Session reports to.
type SessionOptions struct {
	Alerts errors.ErrorHandler
	Toasts state.Alerter
	Logger logging.Logger
	// Hooks runs user scripts for pushed notifications and an exhausted
	// channel. Nil disables them.
	Hooks *hooks.Runner
	// Dialer and Scheduler override the transport defaults.
	Dialer    transport.Dialer
	Scheduler transport.Scheduler
}

// NewSession builds a disconnected session from cfg.
func NewSession(cfg Config, opts SessionOptions) (*Session, error) {
	if opts.Alerts == nil {
		opts.Alerts = errors.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Toasts == nil {
		alerts := opts.Alerts
		opts.Toasts = state.AlerterFunc(func(n domain.Notification) {
			alerts.Info(fmt.Sprintf("%s: %s", n.Title, n.Message))
		})
	}

	if cfg.ToastDedup.Window > 0 {
		toasts, gate := opts.Toasts, dedup.NewGate(cfg.ToastDedup)
		opts.Toasts = state.AlerterFunc(func(n domain.Notification) {
			if gate.Allow(n) {
				toasts.Notify(n)
			}
		})
	}
	if opts.Hooks != nil {
		toasts, runner := opts.Toasts, opts.Hooks
		opts.Toasts = state.AlerterFunc(func(n domain.Notification) {
			toasts.Notify(n)
			runner.Notify(n)
		})
	}

	client, err := NewClient(cfg, opts.Logger)
	if err != nil {
		return nil, err
	}

	s := &Session{API: client, hooks: opts.Hooks, log: opts.Logger.With("component", "session")}
	s.life, s.cancel = context.WithCancel(context.Background())

	s.Sync = state.New(client, state.Options{
		DropdownLimit: cfg.DropdownLimit,
		ListLimit:     cfg.ListLimit,
		Filter:        cfg.Filter,
		Alerter:       opts.Toasts,
		Logger:        opts.Logger,
	})

	dialer := opts.Dialer
	if dialer == nil {
		dialer = &transport.WebsocketDialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
			Jar:              client.Jar(),
			Origin:           client.BaseURL(),
		}
	}
	s.Transport = transport.New(transport.Options{
		URL:         client.WebsocketURL(cfg.WSPath),
		MaxAttempts: cfg.MaxAttempts,
		Delay:       cfg.Delay,
		Dialer:      dialer,
		Scheduler:   opts.Scheduler,
		Alerts:      opts.Alerts,
		Logger:      opts.Logger,
	}, transport.HandlerFunc(s.route))

	if s.hooks != nil {
		s.Transport.OnStateChange(s.hooks.ConnectionState)
	}

	s.Dispatcher = dispatch.New(s.Transport, client, s.Sync, opts.Alerts, opts.Logger)
	return s, nil
}

// Start attaches the views, opens the live channel and loads the initial
// badge, dropdown and list. Failures are logged and alerted; the channel
// keeps retrying on its own.
func (s *Session) Start(ctx context.Context) error {
	s.Sync.AttachList()
	s.Sync.AttachDropdown()

	if err := s.Transport.Connect(ctx); err != nil {
		s.log.Warn("initial connect failed", "error", err)
	}

	var g errgroup.Group
	g.Go(func() error { return s.Sync.RefreshDerived(ctx) })
	g.Go(func() error { return s.Sync.Reload(ctx) })
	if err := g.Wait(); err != nil {
		s.log.Warn("initial load incomplete", "error", err)
	}
	return nil
}

// Stop closes the live channel for good, detaches the views and waits
// for running hooks.
func (s *Session) Stop() {
	s.cancel()
	s.Transport.Dispose()
	s.Sync.DetachList()
	s.Sync.DetachDropdown()
	if s.hooks != nil {
		s.hooks.Wait()
	}
}

// route applies one inbound event to the synchronizer.
func (s *Session) route(ev wire.Event) {
	switch e := ev.(type) {
	case wire.NotificationList:
		s.Sync.ApplyNotificationList(e.Notifications)
	case wire.NewNotification:
		s.Sync.ApplyNewNotification(s.life, e.Notification)
	case wire.NotificationMarkedRead:
		s.Sync.ApplyMarkedRead(s.life, e.NotificationID)
	case wire.AllNotificationsMarkedRead:
		s.Sync.ApplyAllMarkedRead(s.life)
	default:
		s.log.Debug("unrouted event", "type", ev.Type())
	}
}

// Subscribe registers fn for synchronizer changes.
func (s *Session) Subscribe(fn func(state.Change)) (unsubscribe func()) {
	return s.Sync.Subscribe(fn)
}

// OnStateChange registers fn for live channel state changes.
func (s *Session) OnStateChange(fn func(domain.ConnectionState)) {
	s.Transport.OnStateChange(fn)
}

// Snapshot returns the current view models.
func (s *Session) Snapshot() state.Snapshot {
	return s.Sync.Snapshot()
}

// SetFilter switches the list filter and reloads the list.
func (s *Session) SetFilter(ctx context.Context, f domain.Filter) error {
	return s.Sync.SetFilter(ctx, f)
}

// MarkRead marks id read through the dispatcher.
func (s *Session) MarkRead(ctx context.Context, id string) error {
	return s.Dispatcher.MarkRead(ctx, id)
}

// MarkAllRead marks every notification read through the dispatcher.
func (s *Session) MarkAllRead(ctx context.Context) error {
	return s.Dispatcher.MarkAllRead(ctx)
}
