// Package errors holds the user-visible alert sinks and the error taxonomy
// shared by the live channel, the fallback API and the synchronizer.
package errors

import (
	"sync"
)

// ErrorHandler is the interface for user-visible alerts.
// The synchronizer raises toasts through it; the transport raises
// connection errors through it. Implementations never panic.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console writer used by CLIHandler.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints alerts to the terminal through a ColorOutput.
type CLIHandler struct {
	colors ColorOutput
	mu     sync.Mutex
	last   string
	quiet  bool
}

// NewCLIHandler creates a CLI handler writing to colors.
func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

// SetQuiet suppresses Info and Success alerts. Errors and warnings still print.
func (h *CLIHandler) SetQuiet(quiet bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quiet = quiet
}

// Error prints msg unless it repeats the previous error verbatim.
// A flapping live channel would otherwise print the same line per attempt.
func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	if h.last == msg {
		h.mu.Unlock()
		return
	}
	h.last = msg
	h.mu.Unlock()

	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) {
	h.colors.Warning(msg)
}

func (h *CLIHandler) Info(msg string) {
	if h.isQuiet() {
		return
	}
	h.colors.Info(msg)
}

func (h *CLIHandler) Success(msg string) {
	h.mu.Lock()
	h.last = ""
	h.mu.Unlock()
	if h.isQuiet() {
		return
	}
	h.colors.Success(msg)
}

func (h *CLIHandler) isQuiet() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.quiet
}

// Discard is an ErrorHandler that drops every alert.
type Discard struct{}

func (Discard) Error(string)   {}
func (Discard) Warning(string) {}
func (Discard) Info(string)    {}
func (Discard) Success(string) {}
