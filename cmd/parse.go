package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/parser"
)

// parseArg parses the script named by the command's only argument. Syntax
// errors are printed and reported as errReported.
func parseArg(cmd *cobra.Command, args []string) ([]*ast.Command, error) {
	cmd.SilenceUsage = true

	configuration, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	src, err := afero.ReadFile(afero.NewOsFs(), args[0])
	if err != nil {
		return nil, err
	}

	cmds, err := parser.ParseFile(args[0], string(src))
	if err != nil {
		newPrinter(cmd, configuration).Error(err)
		return nil, errReported
	}
	return cmds, nil
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the syntax tree of a script.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmds, err := parseArg(cmd, args)
		if err != nil {
			return err
		}
		return ast.Dump(cmd.OutOrStdout(), cmds)
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt FILE",
	Short: "Print a script in canonical form.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmds, err := parseArg(cmd, args)
		if err != nil {
			return err
		}
		return ast.WriteCommands(cmd.OutOrStdout(), cmds)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)
}
