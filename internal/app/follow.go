package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	"github.com/cristianoliveira/intray-live/internal/format"
	"github.com/cristianoliveira/intray-live/internal/formatter"
	"github.com/cristianoliveira/intray-live/internal/search"
	"github.com/cristianoliveira/intray-live/internal/state"
)

// FollowSession is the live session the follow use-case prints from.
type FollowSession interface {
	Start(ctx context.Context) error
	Stop()
	Subscribe(fn func(state.Change)) (unsubscribe func())
	OnStateChange(fn func(domain.ConnectionState))
}

// FollowOptions holds all parameters for follow behavior.
type FollowOptions struct {
	Output io.Writer
	// Signals overrides OS signal delivery; tests send on it directly.
	Signals <-chan os.Signal
	// Template renders each pushed notification on one line. Preset names
	// a formatter preset and is used when Template is empty.
	Template string
	Preset   string
	// Search prints only pushed notifications matching the query.
	Search     string
	SearchMode string
	IgnoreCase bool
}

// FollowUseCase prints live events until interrupted.
type FollowUseCase struct {
	session FollowSession
}

// NewFollowUseCase creates a follow use-case.
func NewFollowUseCase(session FollowSession) *FollowUseCase {
	if session == nil {
		panic("NewFollowUseCase: session dependency cannot be nil")
	}
	return &FollowUseCase{session: session}
}

// Execute starts the session and prints pushed notifications, badge
// changes and connection changes. It returns when ctx is done, on
// SIGINT/SIGTERM, or with ErrExhausted once the channel gives up.
func (u *FollowUseCase) Execute(ctx context.Context, opts FollowOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	sigChan := opts.Signals
	if sigChan == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(ch)
		sigChan = ch
	}

	p := &followPrinter{w: opts.Output}
	if err := p.configure(opts); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	exhausted := make(chan struct{})
	var once sync.Once

	u.session.OnStateChange(func(s domain.ConnectionState) {
		p.state(s)
		if s == domain.Exhausted {
			once.Do(func() { close(exhausted) })
		}
	})
	unsubscribe := u.session.Subscribe(p.change)
	defer unsubscribe()

	colors.LogInfo("Following notifications (Ctrl+C to stop)...")
	if err := u.session.Start(ctx); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	defer u.session.Stop()

	select {
	case <-ctx.Done():
		return nil
	case sig := <-sigChan:
		p.printf("\nReceived signal %v, stopping...\n", sig)
		return nil
	case <-exhausted:
		return fmt.Errorf("follow: %w", errors.ErrExhausted)
	}
}

// followPrinter serializes writes from the transport and state goroutines.
type followPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	badge int
	shown bool

	template string
	engine   formatter.TemplateEngine
	search   search.Provider
	query    string
}

func (p *followPrinter) configure(opts FollowOptions) error {
	tmpl := opts.Template
	if tmpl == "" && opts.Preset != "" {
		preset, err := formatter.NewPresetRegistry().Get(opts.Preset)
		if err != nil {
			return err
		}
		tmpl = preset.Template
	}
	if tmpl != "" {
		engine := formatter.NewTemplateEngine()
		if err := engine.Validate(tmpl); err != nil {
			return fmt.Errorf("invalid template: %w", err)
		}
		p.template, p.engine = tmpl, engine
	}

	if opts.Search != "" {
		provider, err := search.New(opts.SearchMode, search.WithCaseInsensitive(opts.IgnoreCase))
		if err != nil {
			return err
		}
		if re, ok := provider.(*search.RegexProvider); ok {
			if err := re.Validate(opts.Search); err != nil {
				return fmt.Errorf("invalid search pattern: %w", err)
			}
		}
		p.search, p.query = provider, opts.Search
	}
	return nil
}

func (p *followPrinter) printf(f string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, f, args...)
}

func (p *followPrinter) state(s domain.ConnectionState) {
	color := ""
	switch s {
	case domain.Connected:
		color = colors.Green
	case domain.Exhausted:
		color = colors.Red
	}
	if color == "" {
		p.printf("[live] %s\n", s)
		return
	}
	p.printf("%s[live] %s%s\n", color, s, colors.Reset)
}

func (p *followPrinter) change(c state.Change) {
	switch c.Kind {
	case state.ChangeNew:
		if c.New == nil {
			return
		}
		n := *c.New
		if p.search != nil && !p.search.Match(n, p.query) {
			return
		}
		if p.engine != nil {
			line, err := p.engine.Substitute(p.template, formatter.VariableContext{
				Notification: n,
				UnreadCount:  c.Snapshot.Badge.Count,
				Now:          time.Now(),
			})
			if err == nil {
				p.printf("%s\n", line)
			}
			return
		}
		p.printf("%s[%s] [%s] %s%s\n", colors.Cyan, n.CreatedAt.Local().Format(format.TimeLayout), n.Category, n.Title, colors.Reset)
		if n.Message != "" {
			p.printf("  └─ %s\n", n.Message)
		}
	case state.ChangeBadge:
		p.mu.Lock()
		changed := !p.shown || p.badge != c.Snapshot.Badge.Count
		p.badge, p.shown = c.Snapshot.Badge.Count, true
		p.mu.Unlock()
		if changed {
			p.printf("[badge] %d unread\n", c.Snapshot.Badge.Count)
		}
	}
}
