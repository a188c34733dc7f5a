package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/neoshell/core/config"
)

// initCmd intializes the configuration
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Initialize a configuration, in the current directory by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		_, err := config.Initialize(dir, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
