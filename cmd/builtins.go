package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/neoshell/commands"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		for _, builtin := range commands.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", builtin.Phase, strings.Join(builtin.Names, ", "), builtin.Short)
			fmt.Fprintf(w, "\t\t  %s\n", builtin.Use)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
