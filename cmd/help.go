package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// outputWriter overrides where help is written. Nil means stdout.
var outputWriter io.Writer

// commandOrder is the order commands appear in the help text.
var commandOrder = []string{
	"watch",
	"follow",
	"count",
	"status",
	"list",
	"mark-read",
	"mark-all-read",
	"help",
	"version",
}

// helpCmd represents the help command
var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show this help message",
	Long:  `Show this help message.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Root().Help()
	},
}

func init() {
	RootCmd.SetHelpCommand(helpCmd)
}

// PrintHelp writes the root help text listing the known commands.
func PrintHelp(cmd *cobra.Command) {
	w := outputWriter
	if w == nil {
		w = os.Stdout
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Use, found.Short))
	}

	fmt.Fprintf(w, `intray-live v%s

Live notification inbox for the terminal.

USAGE:
    intray-live [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --debug         Enable debug output
    --no-color      Disable colored output
    -h, --help      Show help message

CONFIGURATION:
    $XDG_CONFIG_HOME/intray-live/config.toml, overridden by INTRAY_LIVE_* variables.
`, cmd.Version, strings.Join(cmdLines, "\n"))
}
