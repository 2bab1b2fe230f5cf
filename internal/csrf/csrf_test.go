package csrf

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		want    string
		wantErr bool
	}{
		{
			name: "meta tag",
			page: `<html><head><meta name="csrf-token" content="meta-token"></head><body></body></html>`,
			want: "meta-token",
		},
		{
			name: "form input",
			page: `<form><input type="hidden" name="csrfmiddlewaretoken" value="form-token"></form>`,
			want: "form-token",
		},
		{
			name: "meta wins over input",
			page: `<body><form><input name="csrfmiddlewaretoken" value="form-token"></form></body><meta name="csrf-token" content="meta-token">`,
			want: "meta-token",
		},
		{
			name:    "absent",
			page:    `<html><body><p>nothing here</p></body></html>`,
			wantErr: true,
		},
		{
			name:    "empty content",
			page:    `<meta name="csrf-token" content="  ">`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHTML(strings.NewReader(tt.page))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatic(t *testing.T) {
	tok, err := Static("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = Static("").Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestPageSourceCachesUntilInvalidated(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<meta name="csrf-token" content="page-token">`))
	}))
	defer srv.Close()

	src := NewPageSource(srv.Client(), srv.URL+"/notifications/")
	for i := 0; i < 3; i++ {
		tok, err := src.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "page-token", tok)
	}
	assert.Equal(t, int32(1), hits.Load())

	src.Invalidate()
	_, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestPageSourceFallsBackToCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "cookie-token", Path: "/"})
		_, _ = w.Write([]byte(`<html><body>no token</body></html>`))
	}))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := srv.Client()
	client.Jar = jar

	tok, err := NewPageSource(client, srv.URL+"/notifications/").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", tok)
}

func TestPageSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewPageSource(srv.Client(), srv.URL).Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Contains(t, err.Error(), "404")
}
