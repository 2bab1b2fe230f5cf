package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cristianoliveira/intray-live/internal/domain"
)

// Event is a decoded inbound message.
type Event interface {
	// Type returns the wire type of the event.
	Type() string
}

// NotificationList replaces the client's list wholesale.
type NotificationList struct {
	Notifications []domain.Notification
}

// NewNotification announces a notification created on the server.
type NewNotification struct {
	Notification domain.Notification
}

// NotificationMarkedRead confirms a single notification is read.
type NotificationMarkedRead struct {
	NotificationID string
}

// AllNotificationsMarkedRead confirms every notification is read.
type AllNotificationsMarkedRead struct{}

func (NotificationList) Type() string           { return TypeNotificationList }
func (NewNotification) Type() string            { return TypeNewNotification }
func (NotificationMarkedRead) Type() string     { return TypeNotificationMarkedRead }
func (AllNotificationsMarkedRead) Type() string { return TypeAllNotificationsMarkedRead }

type envelope struct {
	Type           string          `json:"type"`
	Notifications  *[]Notification `json:"notifications,omitempty"`
	Notification   *Notification   `json:"notification,omitempty"`
	NotificationID json.RawMessage `json:"notification_id,omitempty"`
}

// Decode parses one inbound message. Malformed JSON or an invalid payload
// for a known type yields a *ParseError; an unrecognized type yields
// ErrUnknownType.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ParseError{Err: err}
	}

	switch env.Type {
	case TypeNotificationList:
		if env.Notifications == nil {
			return nil, &ParseError{Type: env.Type, Err: errors.New("missing notifications")}
		}
		list, err := ToDomainList(*env.Notifications)
		if err != nil {
			return nil, &ParseError{Type: env.Type, Err: err}
		}
		return NotificationList{Notifications: list}, nil

	case TypeNewNotification:
		if env.Notification == nil {
			return nil, &ParseError{Type: env.Type, Err: errors.New("missing notification")}
		}
		n, err := env.Notification.ToDomain()
		if err != nil {
			return nil, &ParseError{Type: env.Type, Err: err}
		}
		return NewNotification{Notification: n}, nil

	case TypeNotificationMarkedRead:
		id, err := decodeID(env.NotificationID)
		if err != nil {
			return nil, &ParseError{Type: env.Type, Err: err}
		}
		return NotificationMarkedRead{NotificationID: id}, nil

	case TypeAllNotificationsMarkedRead:
		return AllNotificationsMarkedRead{}, nil

	case "":
		return nil, &ParseError{Err: errors.New("missing type")}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// decodeID accepts the notification id as a JSON string.
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("missing notification_id")
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", fmt.Errorf("notification_id: %w", err)
	}
	if err := domain.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

// Intent is an outbound client request on the live channel.
type Intent struct {
	Action         string `json:"action"`
	NotificationID string `json:"notification_id,omitempty"`
}

// MarkAsRead builds the intent that asks the server to mark id read.
func MarkAsRead(id string) Intent {
	return Intent{Action: ActionMarkAsRead, NotificationID: id}
}

// MarkAllAsRead builds the intent that asks the server to mark everything read.
func MarkAllAsRead() Intent {
	return Intent{Action: ActionMarkAllAsRead}
}
