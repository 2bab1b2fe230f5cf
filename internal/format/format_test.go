package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idA = "3f2b8c1e-7a4d-4e1b-9c2a-5d6e7f809a1b"
	idB = "9b1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e5f"
)

func sample() []domain.Notification {
	created := time.Date(2024, 5, 3, 9, 15, 0, 0, time.Local)
	return []domain.Notification{
		{ID: idA, Title: "Invitation", Message: "Join project X", Category: domain.CategoryProjectInvitation, CreatedAt: created},
		{ID: idB, Title: "Comment", Message: "", Category: domain.CategoryComment, Read: true, CreatedAt: created},
	}
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &SimpleFormatter{}, NewFormatter(FormatterTypeSimple))
	assert.IsType(t, &TableFormatter{}, NewFormatter(FormatterTypeTable))
	assert.IsType(t, &CompactFormatter{}, NewFormatter(FormatterTypeCompact))
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatterTypeJSON))
	assert.IsType(t, &SimpleFormatter{}, NewFormatter("fancy"))

	assert.True(t, IsValid("json"))
	assert.False(t, IsValid("yaml"))
}

func TestSimpleFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSimpleFormatter().FormatNotifications(sample(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "● "+idA+"  2024-05-03 09:15  Invitation", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "○ "+idB))
}

func TestCompactFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCompactFormatter().FormatNotifications(sample(), &buf))
	assert.Equal(t, "Invitation: Join project X\nComment\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter()
	f.HeaderColor = ""
	require.NoError(t, f.FormatNotifications(sample(), &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "TITLE")
	assert.True(t, strings.HasPrefix(lines[1], "-  ---"))
	assert.Contains(t, lines[2], "PROJECT_INVITATION")
	assert.True(t, strings.HasPrefix(lines[3], "○  "+idB))

	buf.Reset()
	require.NoError(t, f.FormatNotifications(nil, &buf))
	assert.Empty(t, buf.String())
}

func TestTableWithColumns(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter().WithColumns(TableColumn{Name: "MSG", Width: 8, Extractor: func(n domain.Notification) string { return n.Message }})
	f.ShowHeaders = false
	require.NoError(t, f.FormatNotifications(sample()[:1], &buf))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(buf.String()), "Join ..."))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatNotifications(sample(), &buf))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, idA, out[0]["id"])
	assert.Equal(t, "PROJECT_INVITATION", out[0]["type_code"])
	assert.Equal(t, true, out[1]["read"])

	buf.Reset()
	require.NoError(t, NewJSONFormatter().FormatNotifications(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "héllo", Truncate("héllo", 5))
}
