package status

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	count   int
	unread  []domain.Notification
	err     error
	listed  bool
	gotFilt domain.Filter
}

func (f *fakeClient) Count(context.Context) (int, error) { return f.count, f.err }

func (f *fakeClient) List(_ context.Context, filter domain.Filter, _ int) ([]domain.Notification, error) {
	f.listed, f.gotFilt = true, filter
	return f.unread, nil
}

var created = time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)

func unread() []domain.Notification {
	return []domain.Notification{
		{ID: "3f2b8c1e-7a4d-4e1b-9c2a-5d6e7f809a1b", Title: "Invite", Category: domain.CategoryProjectInvitation, CreatedAt: created},
		{ID: "9b1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e5f", Title: "Comment", Category: domain.CategoryComment, CreatedAt: created},
		{ID: "0c7a9e52-1d3b-4f6a-8b2c-3d4e5f6a7b8c", Title: "Reply", Category: domain.CategoryComment, CreatedAt: created},
	}
}

func TestRenderNothingUnread(t *testing.T) {
	client := &fakeClient{}
	for _, format := range []string{FormatCompact, FormatDetailed, FormatCountOnly, "${title}"} {
		out, err := Render(context.Background(), client, Options{Format: format})
		require.NoError(t, err)
		assert.Empty(t, out)
	}
	assert.False(t, client.listed)
}

func TestRenderFormats(t *testing.T) {
	now := func() time.Time { return created.Add(2 * time.Hour) }
	tests := []struct {
		name   string
		format string
		want   string
		listed bool
	}{
		{"default is compact", "", "🔔 3", false},
		{"compact", FormatCompact, "🔔 3", false},
		{"count only", FormatCountOnly, "3", false},
		{"detailed", FormatDetailed, "pi:1 c:2", true},
		{"template", "${unread-count} new, latest ${title} (${age})", "3 new, latest Invite (2h)", true},
		{"preset", "title", "Invite", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{count: 3, unread: unread()}
			out, err := Render(context.Background(), client, Options{Format: tt.format, Now: now})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.listed, client.listed)
			if tt.listed {
				assert.Equal(t, domain.FilterUnread, client.gotFilt)
			}
		})
	}
}

func TestRenderColor(t *testing.T) {
	out, err := Render(context.Background(), &fakeClient{count: 1}, Options{Color: true})
	require.NoError(t, err)
	assert.Equal(t, colors.Yellow+"🔔 1"+colors.Reset, out)
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(context.Background(), &fakeClient{err: stderrors.New("down")}, Options{})
	assert.ErrorContains(t, err, "status: down")

	_, err = Render(context.Background(), &fakeClient{count: 1}, Options{Format: "fancy"})
	assert.ErrorContains(t, err, "unknown format: fancy")

	_, err = Render(context.Background(), &fakeClient{count: 1}, Options{Format: "${pane}"})
	assert.ErrorContains(t, err, "unknown variable")
}

func TestShortCategory(t *testing.T) {
	assert.Equal(t, "pi", shortCategory(domain.CategoryProjectInvitation))
	assert.Equal(t, "s", shortCategory(domain.CategorySystem))
	assert.Equal(t, "ea", shortCategory(domain.CategoryEventApproved))
}
