package search

import (
	"testing"
	"time"

	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	invite = domain.Notification{
		ID:        "3f2b8c1e-7a4d-4e1b-9c2a-5d6e7f809a1b",
		Title:     "Project invitation",
		Message:   "Join the Apollo project",
		Category:  domain.CategoryProjectInvitation,
		CreatedAt: time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC),
	}
	comment = domain.Notification{
		ID:        "9b1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e5f",
		Title:     "New comment",
		Message:   "Looks good to me",
		Category:  domain.CategoryComment,
		Read:      true,
		CreatedAt: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
	}
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.False(t, opts.CaseInsensitive)
	assert.Equal(t, []string{FieldTitle, FieldMessage}, opts.Fields)

	WithCaseInsensitive(true)(&opts)
	WithFields([]string{FieldCategory})(&opts)
	assert.True(t, opts.CaseInsensitive)
	assert.Equal(t, []string{FieldCategory}, opts.Fields)
}

func TestSubstringProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		query    string
		want     bool
	}{
		{"empty query matches", NewSubstringProvider(), "", true},
		{"title", NewSubstringProvider(), "invitation", true},
		{"message", NewSubstringProvider(), "Apollo", true},
		{"case sensitive miss", NewSubstringProvider(), "apollo", false},
		{"case insensitive hit", NewSubstringProvider(WithCaseInsensitive(true)), "APOLLO", true},
		{"category not searched by default", NewSubstringProvider(), "PROJECT_INVITATION", false},
		{"category field", NewSubstringProvider(WithFields([]string{FieldCategory})), "PROJECT", true},
		{"id field", NewSubstringProvider(WithFields([]string{FieldID})), "3f2b8c1e", true},
		{"unknown field", NewSubstringProvider(WithFields([]string{"session"})), "Apollo", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.provider.Match(invite, tt.query))
		})
	}
}

func TestRegexProvider(t *testing.T) {
	p := NewRegexProvider()
	assert.True(t, p.Match(invite, `^Project\s+inv`))
	assert.False(t, p.Match(invite, `^project`))
	assert.True(t, NewRegexProvider(WithCaseInsensitive(true)).Match(invite, `^project`))
	assert.False(t, p.Match(invite, `[unclosed`), "invalid pattern matches nothing")

	rp := p.(*RegexProvider)
	assert.Error(t, rp.Validate(`[unclosed`))
	assert.NoError(t, rp.Validate(`Apollo|Zeus`))
	assert.Len(t, rp.cache, 3, "valid patterns are cached")
}

func TestTokenProvider(t *testing.T) {
	p := NewTokenProvider(WithCaseInsensitive(true))
	assert.True(t, p.Match(invite, "join apollo"))
	assert.False(t, p.Match(invite, "join zeus"), "every token must match")
	assert.True(t, p.Match(invite, "unread apollo"))
	assert.False(t, p.Match(invite, "read"))
	assert.True(t, p.Match(comment, "read comment"))
	assert.True(t, p.Match(comment, "read unread"), "contradicting read tokens cancel out")
	assert.True(t, p.Match(comment, "   "))
}

func TestNew(t *testing.T) {
	for mode, want := range map[string]string{
		"":            ModeSubstring,
		ModeSubstring: ModeSubstring,
		ModeRegex:     ModeRegex,
		ModeToken:     ModeToken,
	} {
		p, err := New(mode)
		require.NoError(t, err)
		assert.Equal(t, want, p.Name())
	}

	_, err := New("fuzzy")
	assert.ErrorContains(t, err, `unknown search mode "fuzzy"`)
}

func TestFilter(t *testing.T) {
	items := []domain.Notification{invite, comment}
	p := NewSubstringProvider(WithCaseInsensitive(true))

	assert.Equal(t, items, Filter(p, items, ""))
	got := Filter(p, items, "comment")
	require.Len(t, got, 1)
	assert.Equal(t, comment.ID, got[0].ID)
	assert.Empty(t, Filter(p, items, "nothing"))
}
