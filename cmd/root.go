package cmd

import (
	"fmt"
	"os"

	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/config"
	"github.com/cristianoliveira/intray-live/internal/logging"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "intray-live",
	Short:         "Live notification inbox for the terminal.",
	Long:          `Live notification inbox for the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.ShutdownGlobal()
	},
}

var (
	debugFlag   bool
	noColorFlag bool
)

// setup loads the configuration and initializes console output and logging.
func setup(cmd *cobra.Command) error {
	if debugFlag {
		os.Setenv("INTRAY_LIVE_DEBUG", "true")
	}
	config.Load()

	colors.SetDebug(debugFlag || config.GetBool("debug", false))
	if noColorFlag {
		colors.SetNoColor(true)
	}

	if err := logging.InitGlobal(); err != nil {
		colors.Warning("logging disabled:", err.Error())
	}
	logging.GetGlobal().Debug("command started", "command", cmd.CommandPath())
	return nil
}

// Execute runs the root command and reports the error it returns.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		colors.Error(err.Error())
	}
	return err
}

func init() {
	RootCmd.Version = GetVersion()
	RootCmd.SetVersionTemplate("intray-live version {{.Version}}\n")

	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
			return
		}
		PrintHelp(cmd)
	})

	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	RootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}
