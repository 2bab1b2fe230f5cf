package domain

import (
	"fmt"
	"strings"
)

// Filter selects which notifications the full list view displays.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterRead   Filter = "read"
	FilterUnread Filter = "unread"
)

// Filters lists the filters in tab order.
var Filters = []Filter{FilterAll, FilterRead, FilterUnread}

// IsValid checks if the filter is known.
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterRead, FilterUnread:
		return true
	default:
		return false
	}
}

// String returns the string representation of the filter.
func (f Filter) String() string {
	return string(f)
}

// ParseFilter parses a filter name. The empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid read filter: %s", s)
	}
	return f, nil
}

// Matches reports whether n belongs in a list shown under f.
func (f Filter) Matches(n Notification) bool {
	switch f {
	case FilterRead:
		return n.Read
	case FilterUnread:
		return !n.Read
	default:
		return true
	}
}

// AcceptsNew reports whether a freshly pushed notification may be
// prepended to a list shown under f without a reload.
func (f Filter) AcceptsNew() bool {
	return f == FilterAll || f == FilterUnread
}

// ReadParam returns the "read" query value for the filtered list endpoint,
// and false when the unfiltered endpoint should be used.
func (f Filter) ReadParam() (string, bool) {
	switch f {
	case FilterRead:
		return "true", true
	case FilterUnread:
		return "false", true
	default:
		return "", false
	}
}

// Next returns the filter after f in tab order, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// FilterNotifications returns the notifications matching filter.
// Returns a new slice; the input is not modified.
func FilterNotifications(notifs []Notification, filter Filter) []Notification {
	result := make([]Notification, 0, len(notifs))
	for _, n := range notifs {
		if filter.Matches(n) {
			result = append(result, n)
		}
	}
	return result
}

// CountUnread returns the number of unread notifications.
func CountUnread(notifs []Notification) int {
	count := 0
	for _, n := range notifs {
		if !n.Read {
			count++
		}
	}
	return count
}
