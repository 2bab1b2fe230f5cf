package state

import "github.com/cristianoliveira/intray-live/internal/domain"

// Badge is the unread count indicator.
type Badge struct {
	Count   int
	Visible bool
}

// Dropdown is the preview of the most recent unread notifications.
type Dropdown struct {
	Items    []domain.Notification
	Empty    bool
	Attached bool
}

// ListView is the full, filterable notification list.
type ListView struct {
	Filter   domain.Filter
	Items    []domain.Notification
	Empty    bool
	Loading  bool
	Attached bool
}

// Snapshot is a copy of every view model at one instant.
type Snapshot struct {
	Badge    Badge
	Dropdown Dropdown
	List     ListView
}

// ChangeKind names the view a Change concerns.
type ChangeKind int

const (
	ChangeBadge ChangeKind = iota + 1
	ChangeDropdown
	ChangeList
	// ChangeNew announces a pushed notification; Change.New is set.
	ChangeNew
)

// String returns the lowercase name of the kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeBadge:
		return "badge"
	case ChangeDropdown:
		return "dropdown"
	case ChangeList:
		return "list"
	case ChangeNew:
		return "new"
	default:
		return "unknown"
	}
}

// Change is published to subscribers after every view update.
type Change struct {
	Kind     ChangeKind
	Snapshot Snapshot
	New      *domain.Notification
}

func cloneItems(items []domain.Notification) []domain.Notification {
	if items == nil {
		return nil
	}
	out := make([]domain.Notification, len(items))
	copy(out, items)
	return out
}

func (s Snapshot) clone() Snapshot {
	s.Dropdown.Items = cloneItems(s.Dropdown.Items)
	s.List.Items = cloneItems(s.List.Items)
	return s
}
