package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/josephlewis42/neoshell/core"
)

// replCmd runs the interactive shell over the local terminal.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cmd.SilenceUsage = true

		configuration, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		interpreter, err := newInterpreter(cmd, configuration)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := interpreter.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()

		if err := interpreter.RunPrelude(); err != nil {
			newPrinter(cmd, configuration).Error(err)
		}

		var stdin io.ReadCloser = os.Stdin
		if in, ok := cmd.InOrStdin().(io.ReadCloser); ok {
			stdin = in
		}
		isTerminal := term.IsTerminal(int(os.Stdin.Fd()))

		shell, err := core.NewShell(interpreter, configuration, stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), isTerminal)
		if err != nil {
			return err
		}
		defer shell.Close()

		if isTerminal {
			fmt.Fprintln(cmd.OutOrStdout(), "Type :help for shell commands, :quit to leave.")
		}
		shell.Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
