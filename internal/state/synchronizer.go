// Package state reconciles the badge, the unread dropdown and the full
// list with updates from the live channel and the HTTP API.
package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultDropdownLimit is the number of unread items previewed.
const DefaultDropdownLimit = 5

// API is the subset of the HTTP client the synchronizer queries.
type API interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, filter domain.Filter, limit int) ([]domain.Notification, error)
}

// Alerter shows a transient toast for a pushed notification.
type Alerter interface {
	Notify(n domain.Notification)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(n domain.Notification)

// Notify calls f(n).
func (f AlerterFunc) Notify(n domain.Notification) { f(n) }

// Options configures a Synchronizer.
type Options struct {
	DropdownLimit int
	// ListLimit caps list reloads; 0 leaves it to the server.
	ListLimit int
	Filter    domain.Filter
	Alerter   Alerter
	Logger    logging.Logger
}

// Synchronizer owns the view models. All mutations are serialized, and
// subscribers see changes in the order they were made.
type Synchronizer struct {
	api           API
	alerter       Alerter
	log           logging.Logger
	dropdownLimit int
	listLimit     int

	mu       sync.Mutex
	snap     Snapshot
	readIDs  map[string]struct{}
	gen      uint64

	// badgeGen and dropdownGen order overlapping refreshes of each view.
	badgeGen    uint64
	dropdownGen uint64

	subs     map[int]func(Change)
	subOrder []int
	nextSub  int
	queue    []Change
	draining bool
}

// New creates a Synchronizer with both views detached.
func New(api API, opts Options) *Synchronizer {
	if api == nil {
		panic("state: nil api")
	}
	if opts.DropdownLimit <= 0 {
		opts.DropdownLimit = DefaultDropdownLimit
	}
	if !opts.Filter.IsValid() {
		opts.Filter = domain.FilterAll
	}
	if opts.Alerter == nil {
		opts.Alerter = AlerterFunc(func(domain.Notification) {})
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Synchronizer{
		api:           api,
		alerter:       opts.Alerter,
		log:           opts.Logger.With("component", "state"),
		dropdownLimit: opts.DropdownLimit,
		listLimit:     opts.ListLimit,
		snap: Snapshot{
			Dropdown: Dropdown{Empty: true},
			List:     ListView{Filter: opts.Filter, Empty: true},
		},
		readIDs: make(map[string]struct{}),
		subs:    make(map[int]func(Change)),
	}
}

// Subscribe registers fn for every change and returns a func that
// removes it. fn runs on the goroutine that made the change and should
// not block.
func (s *Synchronizer) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subOrder = append(s.subOrder, id)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
		for i, sid := range s.subOrder {
			if sid == id {
				s.subOrder = append(s.subOrder[:i], s.subOrder[i+1:]...)
				break
			}
		}
	}
}

// Snapshot returns a copy of the current view models.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone()
}

// AttachList marks the list view as rendered.
func (s *Synchronizer) AttachList() {
	s.mu.Lock()
	s.snap.List.Attached = true
	s.publishLocked(Change{Kind: ChangeList})
}

// DetachList marks the list view as gone. Pending reloads are dropped.
func (s *Synchronizer) DetachList() {
	s.mu.Lock()
	s.snap.List.Attached = false
	s.snap.List.Loading = false
	s.gen++
	s.publishLocked(Change{Kind: ChangeList})
}

// AttachDropdown marks the dropdown as rendered.
func (s *Synchronizer) AttachDropdown() {
	s.mu.Lock()
	s.snap.Dropdown.Attached = true
	s.publishLocked(Change{Kind: ChangeDropdown})
}

// DetachDropdown marks the dropdown as gone.
func (s *Synchronizer) DetachDropdown() {
	s.mu.Lock()
	s.snap.Dropdown.Attached = false
	s.publishLocked(Change{Kind: ChangeDropdown})
}

// ApplyNotificationList replaces the list wholesale. An empty list shows
// the placeholder. Items already seen read stay read.
func (s *Synchronizer) ApplyNotificationList(list []domain.Notification) {
	s.mu.Lock()
	if !s.snap.List.Attached {
		s.mu.Unlock()
		s.log.Debug("list detached, skipping notification list", "count", len(list))
		return
	}
	s.setListLocked(list)
	s.publishLocked(Change{Kind: ChangeList})
}

// ApplyNewNotification raises a toast, prepends n to the list when the
// filter admits unread items and refreshes the badge and dropdown.
func (s *Synchronizer) ApplyNewNotification(ctx context.Context, n domain.Notification) {
	s.alerter.Notify(n)

	s.mu.Lock()
	if _, seen := s.readIDs[n.ID]; seen {
		n.MarkRead()
	}
	filter := s.snap.List.Filter
	if s.snap.List.Attached && filter.AcceptsNew() && filter.Matches(n) && !s.hasLocked(n.ID) {
		items := make([]domain.Notification, 0, len(s.snap.List.Items)+1)
		items = append(items, n)
		s.snap.List.Items = append(items, s.snap.List.Items...)
		s.snap.List.Empty = false
	}
	pushed := n
	s.publishLocked(Change{Kind: ChangeNew, New: &pushed})

	_ = s.RefreshDerived(ctx)
}

// ApplyMarkedRead flips id to read wherever it is rendered and refreshes
// the badge and dropdown. Unknown or already read ids leave the items as
// they are.
func (s *Synchronizer) ApplyMarkedRead(ctx context.Context, id string) {
	s.mu.Lock()
	s.readIDs[id] = struct{}{}
	changed := markRead(s.snap.List.Items, id)
	if markRead(s.snap.Dropdown.Items, id) {
		changed = true
	}
	if changed {
		s.publishLocked(Change{Kind: ChangeList})
	} else {
		s.mu.Unlock()
	}

	_ = s.RefreshDerived(ctx)
}

// ApplyAllMarkedRead flips every rendered item to read and refreshes the
// badge and dropdown.
func (s *Synchronizer) ApplyAllMarkedRead(ctx context.Context) {
	s.mu.Lock()
	changed := false
	for _, items := range [][]domain.Notification{s.snap.List.Items, s.snap.Dropdown.Items} {
		for i := range items {
			s.readIDs[items[i].ID] = struct{}{}
			if !items[i].Read {
				items[i].MarkRead()
				changed = true
			}
		}
	}
	if changed {
		s.publishLocked(Change{Kind: ChangeList})
	} else {
		s.mu.Unlock()
	}

	_ = s.RefreshDerived(ctx)
}

// RefreshBadge re-queries the unread count. On failure the badge keeps
// its previous value. A response that arrives after a newer refresh
// started is discarded.
func (s *Synchronizer) RefreshBadge(ctx context.Context) error {
	s.mu.Lock()
	s.badgeGen++
	gen := s.badgeGen
	s.mu.Unlock()

	count, err := s.api.Count(ctx)
	if err != nil {
		s.log.Warn("badge refresh failed", "kind", "RequestError", "error", err)
		return err
	}

	s.mu.Lock()
	if gen != s.badgeGen {
		s.mu.Unlock()
		s.log.Debug("discarding stale badge refresh", "count", count)
		return nil
	}
	next := Badge{Count: count, Visible: count > 0}
	if next == s.snap.Badge {
		s.mu.Unlock()
		return nil
	}
	s.snap.Badge = next
	s.publishLocked(Change{Kind: ChangeBadge})
	return nil
}

// RefreshDropdown re-queries the newest unread items. Items seen read
// are left out even if the server still reports them unread. Stale
// responses are discarded the same way as for the badge.
func (s *Synchronizer) RefreshDropdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.snap.Dropdown.Attached {
		s.mu.Unlock()
		return nil
	}
	s.dropdownGen++
	gen := s.dropdownGen
	s.mu.Unlock()

	items, err := s.api.List(ctx, domain.FilterUnread, s.dropdownLimit)
	if err != nil {
		s.log.Warn("dropdown refresh failed", "kind", "RequestError", "error", err)
		return err
	}

	s.mu.Lock()
	if gen != s.dropdownGen || !s.snap.Dropdown.Attached {
		s.mu.Unlock()
		s.log.Debug("discarding stale dropdown refresh", "count", len(items))
		return nil
	}
	unread := make([]domain.Notification, 0, len(items))
	for _, n := range items {
		if _, seen := s.readIDs[n.ID]; seen || n.Read {
			continue
		}
		unread = append(unread, n)
	}
	if len(unread) > s.dropdownLimit {
		unread = unread[:s.dropdownLimit]
	}
	s.snap.Dropdown.Items = unread
	s.snap.Dropdown.Empty = len(unread) == 0
	s.publishLocked(Change{Kind: ChangeDropdown})
	return nil
}

// RefreshDerived refreshes the badge and the dropdown concurrently.
// Both run to completion; the first error is returned.
func (s *Synchronizer) RefreshDerived(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.RefreshBadge(ctx) })
	g.Go(func() error { return s.RefreshDropdown(ctx) })
	return g.Wait()
}

// SetFilter switches the list filter and reloads the list.
func (s *Synchronizer) SetFilter(ctx context.Context, f domain.Filter) error {
	if !f.IsValid() {
		return fmt.Errorf("invalid read filter: %s", f)
	}
	s.mu.Lock()
	s.snap.List.Filter = f
	s.mu.Unlock()
	return s.Reload(ctx)
}

// Reload fetches the list for the current filter. A reload that
// finishes after a newer one started, or after the list was detached,
// is discarded.
func (s *Synchronizer) Reload(ctx context.Context) error {
	s.mu.Lock()
	if !s.snap.List.Attached {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	gen := s.gen
	filter := s.snap.List.Filter
	s.snap.List.Loading = true
	s.publishLocked(Change{Kind: ChangeList})

	items, err := s.api.List(ctx, filter, s.listLimit)

	s.mu.Lock()
	if gen != s.gen || !s.snap.List.Attached {
		s.mu.Unlock()
		s.log.Debug("discarding stale list reload", "filter", filter.String())
		return nil
	}
	s.snap.List.Loading = false
	if err != nil {
		s.publishLocked(Change{Kind: ChangeList})
		s.log.Warn("list reload failed", "kind", "RequestError", "filter", filter.String(), "error", err)
		return err
	}
	s.setListLocked(items)
	s.publishLocked(Change{Kind: ChangeList})
	return nil
}

// setListLocked replaces the list items, keeping read ids monotonic.
func (s *Synchronizer) setListLocked(list []domain.Notification) {
	items := cloneItems(list)
	for i := range items {
		if items[i].Read {
			s.readIDs[items[i].ID] = struct{}{}
		} else if _, seen := s.readIDs[items[i].ID]; seen {
			items[i].MarkRead()
		}
	}
	s.snap.List.Items = items
	s.snap.List.Empty = len(items) == 0
}

func (s *Synchronizer) hasLocked(id string) bool {
	for _, n := range s.snap.List.Items {
		if n.ID == id {
			return true
		}
	}
	return false
}

// publishLocked queues c with a snapshot taken under s.mu and releases
// s.mu. The first publisher drains the queue without holding s.mu, so
// subscribers see changes in mutation order and may call back in.
func (s *Synchronizer) publishLocked(c Change) {
	c.Snapshot = s.snap.clone()
	s.queue = append(s.queue, c)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.queue) > 0 {
		batch := s.queue
		s.queue = nil
		subs := make([]func(Change), 0, len(s.subs))
		for _, id := range s.subOrder {
			if fn, ok := s.subs[id]; ok {
				subs = append(subs, fn)
			}
		}
		s.mu.Unlock()
		for _, ch := range batch {
			for _, fn := range subs {
				fn(ch)
			}
		}
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

func markRead(items []domain.Notification, id string) bool {
	for i := range items {
		if items[i].ID == id && !items[i].Read {
			items[i].MarkRead()
			return true
		}
	}
	return false
}
