package transport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"
)

var errFakeClosed = stderrors.New("use of closed connection")

// fakeConn is an in-memory Conn. Inbound messages are pushed by the test;
// fail ends the read loop with err as if the peer dropped.
type fakeConn struct {
	inbound chan []byte
	failed  chan error
	done    chan struct{}
	once    sync.Once

	mu          sync.Mutex
	written     []json.RawMessage
	writeFn     func(v any) error
	deadlineErr error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		failed:  make(chan error, 1),
		done:    make(chan struct{}),
	}
}

func (c *fakeConn) push(msg string) { c.inbound <- []byte(msg) }

func (c *fakeConn) fail(err error) { c.failed <- err }

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-c.inbound:
		return 1, msg, nil
	case err := <-c.failed:
		return 0, nil, err
	case <-c.done:
		return 0, nil, errFakeClosed
	}
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeFn != nil {
		return c.writeFn(v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadlineErr
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *fakeConn) writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.written))
	for i, w := range c.written {
		out[i] = string(w)
	}
	return out
}

// fakeDialer hands out queued connections; once the queue is empty every
// dial fails.
type fakeDialer struct {
	mu    sync.Mutex
	queue []*fakeConn
	dials int
	urls  []string
}

func (d *fakeDialer) enqueue(conns ...*fakeConn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, conns...)
}

func (d *fakeDialer) Dial(_ context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	d.urls = append(d.urls, url)
	if len(d.queue) == 0 {
		return nil, stderrors.New("connection refused")
	}
	c := d.queue[0]
	d.queue = d.queue[1:]
	return c, nil
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

type fakeTimer struct {
	mu      sync.Mutex
	fn      func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler records timers and runs them only when the test fires them.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{fn: f, delay: d}
	s.timers = append(s.timers, t)
	return t
}

// pending returns the number of timers neither stopped nor fired.
func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

// fireNext runs the oldest pending timer on the calling goroutine.
// It reports false when nothing is pending.
func (s *fakeScheduler) fireNext() bool {
	s.mu.Lock()
	var next *fakeTimer
	for _, t := range s.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			t.fired = true
			next = t
		}
		t.mu.Unlock()
		if next != nil {
			break
		}
	}
	s.mu.Unlock()
	if next == nil {
		return false
	}
	next.fn()
	return true
}

func (s *fakeScheduler) delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.timers))
	for i, t := range s.timers {
		out[i] = t.delay
	}
	return out
}

// recordingAlerts captures user-visible alerts.
type recordingAlerts struct {
	mu     sync.Mutex
	errors []string
}

func (a *recordingAlerts) Error(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, msg)
}

func (a *recordingAlerts) Warning(string) {}
func (a *recordingAlerts) Info(string)    {}
func (a *recordingAlerts) Success(string) {}

func (a *recordingAlerts) errs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.errors...)
}
