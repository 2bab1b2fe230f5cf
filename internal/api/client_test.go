package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cristianoliveira/intray-live/internal/csrf"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idA = "3f2b8c1e-7a4d-4e1b-9c2a-5d6e7f809a1b"
	idB = "9b1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e5f"
)

func newTestClient(t *testing.T, h http.Handler, src csrf.Source) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/", Timeout: time.Second, CSRF: src})
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "://nope"})
	assert.Error(t, err)
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:8000", "", "ws://localhost:8000/ws/notifications/"},
		{"https://example.com/", "", "wss://example.com/ws/notifications/"},
		{"https://example.com/app", "/ws/custom/", "wss://example.com/app/ws/custom/"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			c, err := New(Options{BaseURL: tt.base})
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.WebsocketURL(tt.path))
		})
	}
}

func TestCount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PathCount, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"count": 3}`))
	})
	c := newTestClient(t, mux, nil)

	n, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCountMissingField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}), nil)

	_, err := c.Count(context.Background())
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "count", reqErr.Op)
}

func TestListEndpoints(t *testing.T) {
	body := `{"notifications":[
		{"id":"` + idA + `","title":"A","message":"a","created_at":"2024-05-03T09:15:42+00:00","read":false},
		{"id":"` + idB + `","title":"B","message":"b","type_code":"COMMENT","created_at":"2024-05-02T09:15:42+00:00","read":true}
	]}`

	tests := []struct {
		name      string
		filter    domain.Filter
		limit     int
		wantPath  string
		wantQuery string
		wantLen   int
	}{
		{"all", domain.FilterAll, 0, PathList, "", 2},
		{"all truncated", domain.FilterAll, 1, PathList, "", 1},
		{"unread", domain.FilterUnread, 5, PathListFiltered, "limit=5&read=false", 2},
		{"read", domain.FilterRead, 0, PathListFiltered, "read=true", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotQuery string
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
				_, _ = w.Write([]byte(body))
			}), nil)

			list, err := c.List(context.Background(), tt.filter, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantQuery, gotQuery)
			require.Len(t, list, tt.wantLen)
			assert.Equal(t, idA, list[0].ID)
		})
	}
}

func TestListErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, `oops`, http.StatusInternalServerError},
		{"not json", http.StatusOK, `<html>`, http.StatusOK},
		{"missing field", http.StatusOK, `{"items":[]}`, http.StatusOK},
		{"invalid item", http.StatusOK, `{"notifications":[{"id":"7","created_at":"2024-01-01T00:00:00Z"}]}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}), nil)

			list, err := c.List(context.Background(), domain.FilterAll, 0)
			assert.Nil(t, list)
			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr), "got %T", err)
			assert.Equal(t, tt.wantStatus, reqErr.Status)
		})
	}
}

func TestListEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"notifications":[]}`))
	}), nil)

	list, err := c.List(context.Background(), domain.FilterUnread, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMarkReadSendsCSRF(t *testing.T) {
	var gotPath, gotToken, gotType, gotAgent string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		gotToken = r.Header.Get(csrf.HeaderName)
		gotType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"success": true}`))
	}), csrf.Static("tok"))

	ok, err := c.MarkRead(context.Background(), idA)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/notifications/api/mark-read/"+idA+"/", gotPath)
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, version.UserAgent(), gotAgent)

	ok, err = c.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, PathMarkAllRead, gotPath)
}

func TestMarkReadNotAcknowledged(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false}`))
	}), csrf.Static("tok"))

	ok, err := c.MarkRead(context.Background(), idA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkReadRejectsBadID(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), nil)

	_, err := c.MarkRead(context.Background(), "../../admin")
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.ErrorIs(t, err, domain.ErrInvalidNotificationID)
	assert.False(t, called)
}

type invalidatingSource struct {
	invalidated bool
}

func (s *invalidatingSource) Token(context.Context) (string, error) { return "stale", nil }
func (s *invalidatingSource) Invalidate()                            { s.invalidated = true }

func TestForbiddenInvalidatesToken(t *testing.T) {
	src := &invalidatingSource{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "CSRF verification failed", http.StatusForbidden)
	}), src)

	_, err := c.MarkAllRead(context.Background())
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusForbidden, reqErr.Status)
	assert.True(t, src.invalidated)
}

func TestCSRFFallsBackToCookie(t *testing.T) {
	var gotToken string
	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: csrf.CookieName, Value: "from-cookie", Path: "/"})
		_, _ = w.Write([]byte(`{"count":0}`))
	})
	mux.HandleFunc(PathMarkAllRead, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(csrf.HeaderName)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	c := newTestClient(t, mux, nil)

	resp, err := c.HTTPClient().Get(c.URL("/set"))
	require.NoError(t, err)
	_ = resp.Body.Close()

	_, err = c.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", gotToken)
}

func TestRequestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c, err := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Count(context.Background())
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Zero(t, reqErr.Status)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestErrorMessage(t *testing.T) {
	err := &RequestError{Op: "count", Status: 500, Err: errors.New("boom")}
	assert.Equal(t, "count: status 500: boom", err.Error())
	assert.Equal(t, "list: boom", (&RequestError{Op: "list", Err: errors.New("boom")}).Error())
}
