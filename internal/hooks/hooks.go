// Package hooks runs user scripts when live notification events happen.
//
// Scripts live in <hooks_dir>/<hook point>/ and must be executable. They
// are started in name order and then run concurrently, each with its own
// timeout, so a slow script never delays the live channel or the other
// scripts. Event details are passed as environment variables.
package hooks

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cristianoliveira/intray-live/internal/config"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/logging"
)

// Hook points.
const (
	PointNewNotification     = "new-notification"
	PointConnectionExhausted = "connection-exhausted"
)

// Failure modes.
const (
	FailureWarn   = "warn"
	FailureIgnore = "ignore"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxConcurrent = 10
)

// Options configures a Runner.
type Options struct {
	Dir           string
	FailureMode   string
	Timeout       time.Duration
	MaxConcurrent int
	Logger        logging.Logger
}

// Runner starts hook scripts and tracks the ones still running.
type Runner struct {
	dir         string
	failureMode string
	timeout     time.Duration
	max         int
	log         logging.Logger
	binary      string
	now         func() time.Time

	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup
}

// New creates a Runner for scripts under opts.Dir.
func New(opts Options) *Runner {
	if opts.FailureMode == "" {
		opts.FailureMode = FailureWarn
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	binary, _ := os.Executable()
	return &Runner{
		dir:         opts.Dir,
		failureMode: opts.FailureMode,
		timeout:     opts.Timeout,
		max:         opts.MaxConcurrent,
		log:         opts.Logger.With("component", "hooks"),
		binary:      binary,
		now:         time.Now,
	}
}

// FromGlobalConfig builds a Runner from the loaded configuration, or
// returns nil when hooks are disabled.
func FromGlobalConfig(log logging.Logger) *Runner {
	if !config.GetBool("hooks_enabled", false) {
		return nil
	}
	dir := config.Get("hooks_dir", "")
	if dir == "" {
		dir = filepath.Join(config.Get("config_dir", ""), "hooks")
	}
	return New(Options{
		Dir:           dir,
		FailureMode:   config.Get("hooks_failure_mode", FailureWarn),
		Timeout:       config.GetDuration("hooks_timeout", defaultTimeout),
		MaxConcurrent: config.GetInt("hooks_max_concurrent", defaultMaxConcurrent),
		Logger:        log,
	})
}

// Notify runs the new-notification hooks for n.
func (r *Runner) Notify(n domain.Notification) {
	r.Run(PointNewNotification, map[string]string{
		"INTRAY_ID":         n.ID,
		"INTRAY_TITLE":      n.Title,
		"INTRAY_MESSAGE":    n.Message,
		"INTRAY_CATEGORY":   n.Category.String(),
		"INTRAY_CREATED_AT": n.CreatedAt.Format(time.RFC3339),
	})
}

// ConnectionState runs the connection-exhausted hooks when the live
// channel gives up.
func (r *Runner) ConnectionState(s domain.ConnectionState) {
	if s != domain.Exhausted {
		return
	}
	r.Run(PointConnectionExhausted, nil)
}

// Run starts every executable script for point and returns how many were
// started. Scripts beyond the concurrency limit are skipped.
func (r *Runner) Run(point string, env map[string]string) int {
	scripts := r.scripts(point)
	if len(scripts) == 0 {
		return 0
	}

	environ := os.Environ()
	environ = append(environ,
		"HOOK_POINT="+point,
		"HOOK_TIMESTAMP="+r.now().Format(time.RFC3339),
	)
	if r.binary != "" {
		environ = append(environ, "INTRAY_LIVE_BINARY="+r.binary)
	}
	for k, v := range env {
		environ = append(environ, k+"="+v)
	}

	r.log.Debug("running hooks", "point", point, "scripts", len(scripts))
	started := 0
	for _, script := range scripts {
		r.mu.Lock()
		if r.pending >= r.max {
			r.mu.Unlock()
			r.report("too many hooks pending, skipping", "script", script, "max", r.max)
			continue
		}
		r.pending++
		r.wg.Add(1)
		r.mu.Unlock()

		started++
		go r.exec(script, environ)
	}
	return started
}

func (r *Runner) exec(script string, environ []string) {
	defer func() {
		r.mu.Lock()
		r.pending--
		r.mu.Unlock()
		r.wg.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := r.now()
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = environ
	// Children of a killed script may hold the output pipe open.
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()
	duration := time.Since(start)

	name := filepath.Base(script)
	if ctx.Err() == context.DeadlineExceeded {
		r.report("hook timed out", "script", name, "timeout", r.timeout)
		return
	}
	if err != nil {
		r.report("hook failed", "script", name, "error", err, "output", string(output))
		return
	}
	r.log.Debug("hook completed", "script", name, "duration", duration, "output", string(output))
}

// report logs a hook problem at the level the failure mode asks for.
func (r *Runner) report(msg string, args ...any) {
	if r.failureMode == FailureIgnore {
		r.log.Debug(msg, args...)
		return
	}
	r.log.Warn(msg, args...)
}

// scripts returns the executable files for point sorted by name.
func (r *Runner) scripts(point string) []string {
	hookDir := filepath.Join(r.dir, point)
	entries, err := os.ReadDir(hookDir)
	if err != nil {
		return nil
	}

	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(hookDir, e.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		scripts = append(scripts, path)
	}
	sort.Strings(scripts)
	return scripts
}

// Pending returns the number of scripts still running.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Wait blocks until every started script has finished or timed out.
func (r *Runner) Wait() {
	r.wg.Wait()
}
