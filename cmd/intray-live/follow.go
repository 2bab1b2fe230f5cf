/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/intray-live/cmd"
	"github.com/cristianoliveira/intray-live/internal/app"
	"github.com/spf13/cobra"
)

type followClient interface {
	NewFollowSession() (app.FollowSession, error)
}

// NewFollowCmd creates the follow command with explicit dependencies.
func NewFollowCmd(client followClient) *cobra.Command {
	if client == nil {
		panic("NewFollowCmd: client dependency cannot be nil")
	}

	var opts app.FollowOptions

	followCmd := &cobra.Command{
		Use:   "follow",
		Short: "Print live notifications as they arrive",
		Long: `Print live notifications as they arrive.

Connects to the live channel and prints new notifications, unread count
changes and connection changes until interrupted. Exits with an error
once reconnect attempts are exhausted.

USAGE:
    intray-live follow [OPTIONS]

OPTIONS:
    --template <tmpl>    Print each notification with a template, e.g. '${category}: ${title}'
    --preset <name>      Use a named template: oneline, detailed, tsv, title
    --search <query>     Print only notifications matching the query
    --search-mode <mode> Search mode: substring (default), regex, token
    -i, --ignore-case    Case-insensitive search
    -h, --help           Show this help

TEMPLATE VARIABLES:
    ${id} ${title} ${message} ${category} ${created-at} ${time} ${age}
    ${read} ${unread-count}`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			session, err := client.NewFollowSession()
			if err != nil {
				return fmt.Errorf("follow: %w", err)
			}
			opts.Output = c.OutOrStdout()
			return app.NewFollowUseCase(session).Execute(c.Context(), opts)
		},
	}

	followCmd.Flags().StringVar(&opts.Template, "template", "", "Template for each notification")
	followCmd.Flags().StringVar(&opts.Preset, "preset", "", "Named template: oneline, detailed, tsv, title")
	followCmd.Flags().StringVar(&opts.Search, "search", "", "Print only notifications matching the query")
	followCmd.Flags().StringVar(&opts.SearchMode, "search-mode", "substring", "Search mode: substring, regex, token")
	followCmd.Flags().BoolVarP(&opts.IgnoreCase, "ignore-case", "i", false, "Case-insensitive search")
	return followCmd
}

var followCmd = NewFollowCmd(client)

func init() {
	cmd.RootCmd.AddCommand(followCmd)
}
