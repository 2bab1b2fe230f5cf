/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/intray-live/cmd"
	"github.com/cristianoliveira/intray-live/internal/app"
	"github.com/cristianoliveira/intray-live/internal/config"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/spf13/cobra"
)

const listCommandLong = `List notifications from the server.

USAGE:
    intray-live list [OPTIONS]

OPTIONS:
    --filter <status>    Filter by read status: all, read, unread (default from config)
    --limit <n>          Maximum number of notifications (0 = server default)
    --format=<format>    Output format: simple (default), table, compact, json
    --search <query>     Keep notifications whose title or message match
    --search-mode <mode> Search mode: substring (default), regex, token
    -i, --ignore-case    Case-insensitive search
    -h, --help           Show this help`

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client app.ListClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	var listFilter string
	var listLimit int
	var listFormat string
	var listSearch string
	var listSearchMode string
	var listIgnoreCase bool

	useCase := app.NewListUseCase(client)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications with filters and formats",
		Long:  listCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			filter := listFilter
			if !c.Flags().Changed("filter") {
				filter = config.Get("default_filter", string(domain.FilterAll))
			}
			limit := listLimit
			if !c.Flags().Changed("limit") {
				limit = config.GetInt("list_limit", 0)
			}
			return useCase.Execute(c.Context(), app.ListOptions{
				Filter: domain.Filter(filter),
				Limit:  limit,
				Format: listFormat,

				Search:     listSearch,
				SearchMode: listSearchMode,
				IgnoreCase: listIgnoreCase,
			}, c.OutOrStdout())
		},
	}

	listCmd.Flags().StringVar(&listFilter, "filter", string(domain.FilterAll), "Filter by read status: all, read, unread")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of notifications")
	listCmd.Flags().StringVar(&listFormat, "format", "simple", "Output format: simple, table, compact, json")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Keep notifications matching the query")
	listCmd.Flags().StringVar(&listSearchMode, "search-mode", "substring", "Search mode: substring, regex, token")
	listCmd.Flags().BoolVarP(&listIgnoreCase, "ignore-case", "i", false, "Case-insensitive search")
	return listCmd
}

var listCmd = NewListCmd(client)

func init() {
	cmd.RootCmd.AddCommand(listCmd)
}
