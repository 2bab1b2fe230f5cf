/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/intray-live/cmd"
	tuiapp "github.com/cristianoliveira/intray-live/internal/tui/app"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command with explicit dependencies.
func NewWatchCmd(client tuiapp.Client) *cobra.Command {
	if client == nil {
		panic("NewWatchCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "watch",
		Short: "Interactive live notification inbox",
		Long: `Interactive live notification inbox.

USAGE:
    intray-live watch

KEY BINDINGS:
    j/k, ↑/↓    Move up/down in the list
    tab         Cycle the read filter
    1/2/3       Show all, read or unread notifications
    r, Enter    Mark the selected notification read
    a           Mark every notification read
    R           Reload the list
    ?           Show all key bindings
    q           Quit`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return client.Run(c.Context())
		},
	}
}

var watchCmd = NewWatchCmd(tuiClient)

func init() {
	cmd.RootCmd.AddCommand(watchCmd)
}
