// Package dedup builds duplicate keys for notifications and suppresses
// repeated alerts for the same key within a time window.
package dedup

import (
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/intray-live/internal/config"
	"github.com/cristianoliveira/intray-live/internal/domain"
)

// Criteria defines which fields make two notifications duplicates.
type Criteria string

const (
	CriteriaTitle         Criteria = "title"
	CriteriaTitleMessage  Criteria = "title_message"
	CriteriaExact         Criteria = "exact"
	CriteriaNone          Criteria = "none"
	defaultDedupCriteria           = CriteriaTitleMessage
)

// Options configure duplicate detection.
type Options struct {
	Criteria Criteria
	Window   time.Duration
}

// ParseCriteria converts a config value into a Criteria. Unknown values
// fall back to title_message.
func ParseCriteria(value string) Criteria {
	switch Criteria(strings.ToLower(value)) {
	case CriteriaTitle:
		return CriteriaTitle
	case CriteriaExact:
		return CriteriaExact
	case CriteriaNone:
		return CriteriaNone
	default:
		return defaultDedupCriteria
	}
}

// String returns the string value for Criteria.
func (c Criteria) String() string {
	return string(c)
}

// OptionsFromGlobalConfig reads toast_dedup_criteria and toast_dedup_window.
func OptionsFromGlobalConfig() Options {
	return Options{
		Criteria: ParseCriteria(config.Get("toast_dedup_criteria", string(defaultDedupCriteria))),
		Window:   config.GetDuration("toast_dedup_window", 0),
	}
}

// Key returns the duplicate key of n under criteria. CriteriaNone keys by
// id, so only redelivered notifications collide.
func Key(n domain.Notification, criteria Criteria) string {
	switch criteria {
	case CriteriaTitle:
		return n.Title
	case CriteriaExact:
		return joinParts(n.Title, n.Message, n.Category.String())
	case CriteriaNone:
		return n.ID
	default:
		return joinParts(n.Title, n.Message)
	}
}

func joinParts(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// Gate lets the first notification for a key through and drops repeats
// seen within the window. A zero window lets everything through.
type Gate struct {
	opts Options
	now  func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewGate creates a Gate.
func NewGate(opts Options) *Gate {
	if opts.Criteria == "" {
		opts.Criteria = defaultDedupCriteria
	}
	return &Gate{opts: opts, now: time.Now, seen: make(map[string]time.Time)}
}

// Allow reports whether n should be alerted, and records it.
func (g *Gate) Allow(n domain.Notification) bool {
	if g.opts.Window <= 0 {
		return true
	}
	key := Key(n, g.opts.Criteria)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()
	for k, at := range g.seen {
		if now.Sub(at) > g.opts.Window {
			delete(g.seen, k)
		}
	}
	if _, dup := g.seen[key]; dup {
		return false
	}
	g.seen[key] = now
	return true
}
