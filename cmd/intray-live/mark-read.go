/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/intray-live/cmd"
	"github.com/cristianoliveira/intray-live/internal/app"
	"github.com/spf13/cobra"
)

// NewMarkReadCmd creates the mark-read command with explicit dependencies.
func NewMarkReadCmd(client app.MarkReadClient) *cobra.Command {
	if client == nil {
		panic("NewMarkReadCmd: client dependency cannot be nil")
	}

	useCase := app.NewMarkReadUseCase(client)
	return &cobra.Command{
		Use:   "mark-read <id>",
		Short: "Mark a notification as read",
		Long: `Mark a notification as read by ID.

USAGE:
    intray-live mark-read <id>

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return useCase.Execute(c.Context(), args[0])
		},
	}
}

// NewMarkAllReadCmd creates the mark-all-read command with explicit dependencies.
func NewMarkAllReadCmd(client app.MarkAllReadClient) *cobra.Command {
	if client == nil {
		panic("NewMarkAllReadCmd: client dependency cannot be nil")
	}

	useCase := app.NewMarkAllReadUseCase(client)
	return &cobra.Command{
		Use:   "mark-all-read",
		Short: "Mark every notification as read",
		Long: `Mark every notification as read.

USAGE:
    intray-live mark-all-read

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return useCase.Execute(c.Context())
		},
	}
}

var (
	markReadCmd    = NewMarkReadCmd(client)
	markAllReadCmd = NewMarkAllReadCmd(client)
)

func init() {
	cmd.RootCmd.AddCommand(markReadCmd, markAllReadCmd)
}
