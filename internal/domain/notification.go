// Package domain provides the domain layer for notifications.
// It contains the notification entity, its value objects and the read filter.
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidNotificationID is returned when a notification ID is empty or not a UUID.
	ErrInvalidNotificationID = errors.New("invalid notification ID")

	// ErrInvalidTimestamp is returned when a creation timestamp cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid notification timestamp")
)

// Notification represents a single server-issued notification.
// The client never creates one; it only flips Read after the server confirms it.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Category  Category
	Read      bool
	CreatedAt time.Time
}

// Category is the notification type code used for iconography.
type Category string

const (
	CategorySystem            Category = "SYSTEM"
	CategoryProjectInvitation Category = "PROJECT_INVITATION"
	CategoryMembershipRequest Category = "MEMBERSHIP_REQUEST"
	CategoryProjectUpdate     Category = "PROJECT_UPDATE"
	CategoryTaskAssigned      Category = "TASK_ASSIGNED"
	CategoryComment           Category = "COMMENT"
	CategoryEventCreated      Category = "EVENT_CREATED"
	CategoryEventApproved     Category = "EVENT_APPROVED"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategorySystem, CategoryProjectInvitation, CategoryMembershipRequest,
	CategoryProjectUpdate, CategoryTaskAssigned, CategoryComment,
	CategoryEventCreated, CategoryEventApproved,
}

// IsValid checks if the category is one of the known codes.
func (c Category) IsValid() bool {
	switch c {
	case CategorySystem, CategoryProjectInvitation, CategoryMembershipRequest,
		CategoryProjectUpdate, CategoryTaskAssigned, CategoryComment,
		CategoryEventCreated, CategoryEventApproved:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory maps a wire code to a Category.
// Unknown or empty codes fall back to CategorySystem; they only affect the icon.
func ParseCategory(code string) Category {
	c := Category(code)
	if !c.IsValid() {
		return CategorySystem
	}
	return c
}

// IsRead reports whether the notification has been confirmed read.
func (n *Notification) IsRead() bool {
	return n.Read
}

// MarkRead sets the read flag. There is no inverse: once read, a
// notification stays read on the client.
func (n *Notification) MarkRead() *Notification {
	n.Read = true
	return n
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if err := ValidateID(n.ID); err != nil {
		return err
	}
	if n.CreatedAt.IsZero() {
		return fmt.Errorf("%w: creation time is empty", ErrInvalidTimestamp)
	}
	return nil
}

// ValidateID checks that id is a well-formed UUID.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidNotificationID)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNotificationID, id)
	}
	return nil
}

// naiveLayout matches ISO timestamps emitted without a zone offset.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ParseTimestamp parses an RFC3339 creation timestamp. Fractional seconds
// and offsets are accepted as the server sends them; a timestamp without
// an offset is taken as UTC.
func ParseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err == nil {
		return t, nil
	}
	if naive, nerr := time.ParseInLocation(naiveLayout, ts, time.UTC); nerr == nil {
		return naive, nil
	}
	return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
}

// NewNotification creates a new notification with validation.
func NewNotification(id, title, message, category, createdAt string, read bool) (*Notification, error) {
	created, err := ParseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}

	notif := &Notification{
		ID:        id,
		Title:     title,
		Message:   message,
		Category:  ParseCategory(category),
		Read:      read,
		CreatedAt: created,
	}

	if err := notif.Validate(); err != nil {
		return nil, err
	}

	return notif, nil
}
