package cmd

import (
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/neoshell/core"
	"github.com/josephlewis42/neoshell/core/config"
)

var skipPrelude bool

// newInterpreter creates an interpreter reading scripts from the OS
// filesystem and writing to the command's outputs.
func newInterpreter(cmd *cobra.Command, configuration *config.Configuration) (*core.Interpreter, error) {
	return core.NewInterpreter(configuration, afero.NewOsFs(),
		core.WithStdout(cmd.OutOrStdout()),
		core.WithStderr(cmd.ErrOrStderr()),
		core.WithLogger(log.New(cmd.ErrOrStderr(), "[neoshell] ", 0)),
	)
}

func newPrinter(cmd *cobra.Command, configuration *config.Configuration) *ColorPrinter {
	return &ColorPrinter{Mode: configuration.Color, Out: cmd.ErrOrStderr()}
}

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Compile and run a script.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cmd.SilenceUsage = true

		configuration, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		printer := newPrinter(cmd, configuration)

		interpreter, err := newInterpreter(cmd, configuration)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := interpreter.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()

		if !skipPrelude {
			if err := interpreter.RunPrelude(); err != nil {
				printer.Error(err)
				return errReported
			}
		}

		if _, err := interpreter.RunFile(args[0]); err != nil {
			printer.Error(err)
			return errReported
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&skipPrelude, "no-prelude", false, "don't run the prelude scripts")
}
