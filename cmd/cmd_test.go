package cmd

import (
	"bytes"
	"testing"

	"github.com/cristianoliveira/intray-live/internal/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestPrintHelp(t *testing.T) {
	root := &cobra.Command{Use: "intray-live", Version: "0.1.0"}
	for _, name := range []string{"version", "list", "watch", "unknown"} {
		root.AddCommand(&cobra.Command{Use: name, Short: "does " + name})
	}

	var buf bytes.Buffer
	outputWriter = &buf
	defer func() { outputWriter = nil }()

	PrintHelp(root)
	out := buf.String()

	assert.Contains(t, out, "intray-live v0.1.0")
	assert.Contains(t, out, "USAGE:")
	assert.Contains(t, out, "COMMANDS:")
	assert.Contains(t, out, "does watch")
	assert.NotContains(t, out, "does unknown")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("watch")), bytes.Index(buf.Bytes(), []byte("does list")))
}

func TestPrintVersion(t *testing.T) {
	origVersion, origCommit := version.Version, version.Commit
	defer func() { version.Version, version.Commit = origVersion, origCommit }()
	version.Version, version.Commit = "1.2.3", "unknown"

	var buf bytes.Buffer
	versionOutputWriter = &buf
	defer func() { versionOutputWriter = nil }()

	PrintVersion()
	assert.Equal(t, "intray-live v1.2.3\n", buf.String())
	assert.Equal(t, "1.2.3", GetVersion())
}

func TestRootFlags(t *testing.T) {
	assert.NotNil(t, RootCmd.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, RootCmd.PersistentFlags().Lookup("no-color"))
	assert.True(t, RootCmd.SilenceUsage)
}

func TestSetupLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	t.Setenv("INTRAY_LIVE_LOGGING_ENABLED", "false")

	sub := &cobra.Command{Use: "probe"}
	RootCmd.AddCommand(sub)
	defer RootCmd.RemoveCommand(sub)

	assert.NoError(t, setup(sub))
}
