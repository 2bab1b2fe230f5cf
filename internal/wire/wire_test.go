package wire

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idA = "3f2b8c1e-7a4d-4e1b-9c2a-5d6e7f809a1b"
	idB = "9b1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e5f"
)

func TestDecodeNotificationList(t *testing.T) {
	data := `{"type":"notification_list","notifications":[
		{"id":"` + idA + `","title":"Invite","message":"Join us","type_code":"PROJECT_INVITATION","created_at":"2024-05-03T09:15:42.123456+00:00","read":false},
		{"id":"` + idB + `","title":"Hello","message":"World","created_at":"2024-05-02T09:15:42+00:00","read":true}
	]}`

	ev, err := Decode([]byte(data))
	require.NoError(t, err)
	list, ok := ev.(NotificationList)
	require.True(t, ok)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, TypeNotificationList, list.Type())
	assert.Equal(t, idA, list.Notifications[0].ID)
	assert.Equal(t, domain.CategoryProjectInvitation, list.Notifications[0].Category)
	assert.False(t, list.Notifications[0].Read)
	assert.Equal(t, domain.CategorySystem, list.Notifications[1].Category)
	assert.True(t, list.Notifications[1].Read)
}

func TestDecodeEmptyList(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"notification_list","notifications":[]}`))
	require.NoError(t, err)
	assert.Empty(t, ev.(NotificationList).Notifications)
}

func TestDecodeNewNotificationDisplayType(t *testing.T) {
	data := `{"type":"new_notification","notification":{"id":"` + idA + `","type":"Task assigned","title":"T","message":"M","created_at":"2024-05-03T09:15:42"}}`

	ev, err := Decode([]byte(data))
	require.NoError(t, err)
	n := ev.(NewNotification).Notification
	assert.Equal(t, domain.CategoryTaskAssigned, n.Category)
	assert.Equal(t, "T", n.Title)
	assert.False(t, n.Read)
}

func TestDecodeMarkedRead(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"notification_marked_read","notification_id":"` + idB + `"}`))
	require.NoError(t, err)
	assert.Equal(t, NotificationMarkedRead{NotificationID: idB}, ev)

	ev, err = Decode([]byte(`{"type":"all_notifications_marked_read"}`))
	require.NoError(t, err)
	assert.Equal(t, AllNotificationsMarkedRead{}, ev)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		unknown bool
	}{
		{"not json", `{"type":`, false},
		{"array", `[1,2]`, false},
		{"missing type", `{"notifications":[]}`, false},
		{"list without notifications", `{"type":"notification_list"}`, false},
		{"list with bad id", `{"type":"notification_list","notifications":[{"id":"x","created_at":"2024-01-01T00:00:00Z"}]}`, false},
		{"new without notification", `{"type":"new_notification"}`, false},
		{"new with bad timestamp", `{"type":"new_notification","notification":{"id":"` + idA + `","created_at":"soon"}}`, false},
		{"marked read without id", `{"type":"notification_marked_read"}`, false},
		{"marked read numeric id", `{"type":"notification_marked_read","notification_id":7}`, false},
		{"unknown type", `{"type":"presence"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, ev)
			if tt.unknown {
				assert.ErrorIs(t, err, ErrUnknownType)
				return
			}
			var perr *ParseError
			assert.True(t, errors.As(err, &perr), "want *ParseError, got %T", err)
			assert.NotErrorIs(t, err, ErrUnknownType)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Type: TypeNewNotification, Err: errors.New("boom")}
	assert.Equal(t, "parse new_notification message: boom", err.Error())
	assert.Equal(t, "parse message: boom", (&ParseError{Err: errors.New("boom")}).Error())
}

func TestIntentEncoding(t *testing.T) {
	data, err := json.Marshal(MarkAsRead(idA))
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"mark_as_read","notification_id":"`+idA+`"}`, string(data))

	data, err = json.Marshal(MarkAllAsRead())
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"mark_all_as_read"}`, string(data))
}

func TestFromDomain(t *testing.T) {
	n, err := domain.NewNotification(idA, "T", "M", "COMMENT", "2024-05-03T09:15:42.5Z", true)
	require.NoError(t, err)

	w := FromDomain(*n)
	assert.Equal(t, "COMMENT", w.TypeCode)
	assert.Equal(t, "2024-05-03T09:15:42.5Z", w.CreatedAt)

	back, err := w.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, *n, back)
}
