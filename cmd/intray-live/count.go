/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/intray-live/cmd"
	"github.com/cristianoliveira/intray-live/internal/app"
	"github.com/spf13/cobra"
)

// NewCountCmd creates the count command with explicit dependencies.
func NewCountCmd(client app.CountClient) *cobra.Command {
	if client == nil {
		panic("NewCountCmd: client dependency cannot be nil")
	}

	useCase := app.NewCountUseCase(client)
	return &cobra.Command{
		Use:   "count",
		Short: "Print the unread notification count",
		Long: `Print the unread notification count.

USAGE:
    intray-live count

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return useCase.Execute(c.Context(), c.OutOrStdout())
		},
	}
}

var countCmd = NewCountCmd(client)

func init() {
	cmd.RootCmd.AddCommand(countCmd)
}
