// Package wire defines the JSON messages exchanged over the live
// notification channel.
package wire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cristianoliveira/intray-live/internal/domain"
)

// Inbound message types.
const (
	TypeNotificationList           = "notification_list"
	TypeNewNotification            = "new_notification"
	TypeNotificationMarkedRead     = "notification_marked_read"
	TypeAllNotificationsMarkedRead = "all_notifications_marked_read"
)

// Outbound intent actions.
const (
	ActionMarkAsRead    = "mark_as_read"
	ActionMarkAllAsRead = "mark_all_as_read"
)

// ErrUnknownType is returned by Decode for a well-formed message whose
// type is not recognized. Callers ignore such messages.
var ErrUnknownType = errors.New("unknown message type")

// ParseError reports an inbound payload that could not be decoded.
type ParseError struct {
	Type string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("parse message: %v", e.Err)
	}
	return fmt.Sprintf("parse %s message: %v", e.Type, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Notification is the JSON shape of a notification on the wire and in
// HTTP API responses.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type,omitempty"`
	TypeCode  string `json:"type_code,omitempty"`
	CreatedAt string `json:"created_at"`
	Read      bool   `json:"read"`
}

// ToDomain validates n and converts it to a domain notification.
// The category comes from type_code when present, otherwise from the
// display type normalized to a code.
func (n Notification) ToDomain() (domain.Notification, error) {
	code := n.TypeCode
	if code == "" {
		code = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(n.Type), " ", "_"))
	}
	dn, err := domain.NewNotification(n.ID, n.Title, n.Message, code, n.CreatedAt, n.Read)
	if err != nil {
		return domain.Notification{}, err
	}
	return *dn, nil
}

// FromDomain converts a domain notification to its wire shape.
func FromDomain(n domain.Notification) Notification {
	return Notification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		TypeCode:  n.Category.String(),
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05.999999Z07:00"),
		Read:      n.Read,
	}
}

// ToDomainList converts a slice of wire notifications, failing on the
// first invalid entry.
func ToDomainList(in []Notification) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0, len(in))
	for i, n := range in {
		dn, err := n.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("notification %d: %w", i, err)
		}
		out = append(out, dn)
	}
	return out, nil
}
