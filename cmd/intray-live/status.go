/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/intray-live/cmd"
	"github.com/cristianoliveira/intray-live/internal/config"
	"github.com/cristianoliveira/intray-live/internal/status"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(client status.Client) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	var statusFormat string
	var statusColor bool

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print a one-line unread summary for status bars",
		Long: `Print a one-line unread summary for shell prompts and status bars.

Prints nothing when there are no unread notifications.

USAGE:
    intray-live status [OPTIONS]

OPTIONS:
    --format <format>    compact (default from config), detailed, count-only,
                         a preset name or a template such as '${unread-count} ${title}'
    --color              Color the compact output
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			format := statusFormat
			if !c.Flags().Changed("format") {
				format = config.Get("status_format", status.FormatCompact)
			}
			line, err := status.Render(c.Context(), client, status.Options{Format: format, Color: statusColor})
			if err != nil {
				return err
			}
			if line != "" {
				_, _ = fmt.Fprintln(c.OutOrStdout(), line)
			}
			return nil
		},
	}

	statusCmd.Flags().StringVar(&statusFormat, "format", status.FormatCompact, "Output format or template")
	statusCmd.Flags().BoolVar(&statusColor, "color", false, "Color the compact output")
	return statusCmd
}

var statusCmd = NewStatusCmd(client)

func init() {
	cmd.RootCmd.AddCommand(statusCmd)
}
