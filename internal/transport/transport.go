// Package transport owns the live notification channel: one websocket
// connection at a time, a single ordered read loop and a bounded
// reconnect policy.
package transport

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	"github.com/cristianoliveira/intray-live/internal/logging"
	"github.com/cristianoliveira/intray-live/internal/wire"
	"github.com/gorilla/websocket"
)

const (
	// DefaultMaxAttempts is the number of reconnects tried after an
	// unexpected close before giving up.
	DefaultMaxAttempts = 5
	// DefaultDelay is the fixed wait before each reconnect.
	DefaultDelay = 3 * time.Second
)

var (
	// ErrNotConnected is returned by Send when the channel is not open.
	ErrNotConnected = stderrors.New("live channel not connected")
	// ErrDisposed is returned by Connect after Dispose.
	ErrDisposed = stderrors.New("transport disposed")
)

// Handler receives decoded inbound events in arrival order.
type Handler interface {
	HandleEvent(ev wire.Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev wire.Event)

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev wire.Event) { f(ev) }

// Options configures a Transport. Zero values take defaults.
type Options struct {
	URL         string
	MaxAttempts int
	Delay       time.Duration
	Dialer      Dialer
	Scheduler   Scheduler
	Alerts      errors.ErrorHandler
	Logger      logging.Logger
}

// Transport is the live channel. Construct one per session with New.
type Transport struct {
	url         string
	maxAttempts int
	delay       time.Duration
	dialer      Dialer
	scheduler   Scheduler
	alerts      errors.ErrorHandler
	log         logging.Logger
	handler     Handler

	// life bounds reconnect dials; it ends on Dispose.
	life   context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     domain.ConnectionState
	conn      Conn
	gen       uint64
	attempts  int
	timer     Timer
	disposed  bool
	observers []func(domain.ConnectionState)

	writeMu sync.Mutex
	loops   sync.WaitGroup
}

// New creates a disconnected transport delivering events to h.
func New(opts Options, h Handler) *Transport {
	if h == nil {
		panic("transport: nil handler")
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Dialer == nil {
		opts.Dialer = &WebsocketDialer{HandshakeTimeout: 10 * time.Second}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler{}
	}
	if opts.Alerts == nil {
		opts.Alerts = errors.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	life, cancel := context.WithCancel(context.Background())
	return &Transport{
		url:         opts.URL,
		maxAttempts: opts.MaxAttempts,
		delay:       opts.Delay,
		dialer:      opts.Dialer,
		scheduler:   opts.Scheduler,
		alerts:      opts.Alerts,
		log:         opts.Logger.With("component", "transport"),
		handler:     h,
		life:        life,
		cancel:      cancel,
		state:       domain.Disconnected,
	}
}

// State returns the current connection state.
func (t *Transport) State() domain.ConnectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Attempts returns the number of reconnects since the last successful open.
func (t *Transport) Attempts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts
}

// OnStateChange registers fn to be called after every state transition.
// fn runs on the goroutine that caused the transition and must not block.
func (t *Transport) OnStateChange(fn func(domain.ConnectionState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Connect opens the channel, closing any existing connection first.
// That close is intentional and is not retried. A dial failure is
// returned and also feeds the reconnect policy.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return ErrDisposed
	}
	if t.state == domain.Exhausted {
		t.mu.Unlock()
		return errors.ErrExhausted
	}
	t.stopTimerLocked()
	old := t.detachLocked()
	gen := t.gen
	notify := t.setStateLocked(domain.Connecting)
	t.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	notify()
	return t.dial(ctx, gen)
}

// Close shuts the current connection and cancels any pending reconnect.
// It does not trigger a retry. Connect may be called again afterwards.
func (t *Transport) Close() {
	t.mu.Lock()
	t.stopTimerLocked()
	old := t.detachLocked()
	t.attempts = 0
	notify := func() {}
	if t.state != domain.Exhausted {
		notify = t.setStateLocked(domain.Disconnected)
	}
	t.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	notify()
}

// Dispose closes the transport for good and waits for the read loop to
// exit. It must not be called from a Handler.
func (t *Transport) Dispose() {
	t.Close()
	t.mu.Lock()
	t.disposed = true
	t.mu.Unlock()
	t.cancel()
	t.loops.Wait()
}

// Send writes intent on the open channel.
func (t *Transport) Send(ctx context.Context, intent wire.Intent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	conn, state := t.conn, t.state
	t.mu.Unlock()
	if state != domain.Connected || conn == nil {
		return ErrNotConnected
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		t.log.Warn("send failed", "action", intent.Action, "kind", errors.KindConnection.String(), "error", err)
		return errors.New(errors.KindConnection, "set write deadline", err)
	}
	if err := conn.WriteJSON(intent); err != nil {
		t.log.Warn("send failed", "action", intent.Action, "kind", errors.KindConnection.String(), "error", err)
		return errors.New(errors.KindConnection, "send "+intent.Action, err)
	}
	t.log.Debug("intent sent", "action", intent.Action, "notification_id", intent.NotificationID)
	return nil
}

// dial opens a connection for generation gen. A stale or disposed
// generation discards the result.
func (t *Transport) dial(ctx context.Context, gen uint64) error {
	t.log.Debug("dialing", "url", t.url, "attempt", t.Attempts())
	conn, err := t.dialer.Dial(ctx, t.url)

	t.mu.Lock()
	if gen != t.gen || t.disposed {
		t.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return ErrNotConnected
	}
	if err != nil {
		t.mu.Unlock()
		t.log.Warn("dial failed", "url", t.url, "kind", errors.KindConnection.String(), "error", err)
		t.alerts.Error(errors.MsgConnectionError)
		t.unexpectedClose(gen)
		return errors.New(errors.KindConnection, "connect", err)
	}
	t.conn = conn
	t.attempts = 0
	notify := t.setStateLocked(domain.Connected)
	t.loops.Add(1)
	go t.readLoop(conn, gen)
	t.mu.Unlock()

	t.log.Info("connected", "url", t.url)
	notify()
	return nil
}

// readLoop delivers messages from conn until it fails. A failure on the
// current generation is an unexpected close.
func (t *Transport) readLoop(conn Conn, gen uint64) {
	defer t.loops.Done()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !t.current(gen) {
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.log.Warn("connection closed unexpectedly", "error", err)
			} else {
				t.log.Info("connection closed", "error", err)
			}
			_ = conn.Close()
			t.unexpectedClose(gen)
			return
		}
		if !t.current(gen) {
			return
		}

		ev, err := wire.Decode(data)
		if err != nil {
			if stderrors.Is(err, wire.ErrUnknownType) {
				t.log.Debug("ignoring message", "error", err)
				continue
			}
			t.log.Warn("dropping malformed message", "kind", errors.KindMessageParse.String(), "error", err)
			continue
		}
		t.handler.HandleEvent(ev)
	}
}

// unexpectedClose applies the reconnect policy for generation gen.
func (t *Transport) unexpectedClose(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.disposed {
		t.mu.Unlock()
		return
	}
	t.conn = nil

	if t.attempts >= t.maxAttempts {
		notify := t.setStateLocked(domain.Exhausted)
		t.mu.Unlock()
		t.log.Error("giving up on live channel", "kind", errors.KindExhaustedRetries.String(), "attempts", t.maxAttempts)
		t.alerts.Error(errors.MsgConnectionLost)
		notify()
		return
	}

	t.attempts++
	attempt := t.attempts
	t.stopTimerLocked()
	t.timer = t.scheduler.AfterFunc(t.delay, func() { t.reconnect(gen) })
	notify := t.setStateLocked(domain.Disconnected)
	t.mu.Unlock()

	t.log.Info("reconnect scheduled", "attempt", attempt, "max_attempts", t.maxAttempts, "delay", t.delay.String())
	notify()
}

// reconnect runs when the timer scheduled for generation gen fires.
func (t *Transport) reconnect(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.disposed || t.state != domain.Disconnected {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.gen++
	next := t.gen
	notify := t.setStateLocked(domain.Connecting)
	t.mu.Unlock()

	notify()
	_ = t.dial(t.life, next)
}

func (t *Transport) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen == t.gen && !t.disposed
}

// detachLocked retires the current generation and returns its connection.
func (t *Transport) detachLocked() Conn {
	t.gen++
	old := t.conn
	t.conn = nil
	return old
}

func (t *Transport) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// setStateLocked records s and returns a func that notifies observers.
// Call the returned func after releasing t.mu.
func (t *Transport) setStateLocked(s domain.ConnectionState) func() {
	if t.state == s {
		return func() {}
	}
	t.state = s
	observers := append([]func(domain.ConnectionState){}, t.observers...)
	return func() {
		for _, fn := range observers {
			fn(s)
		}
	}
}
