package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/neoshell/core/config"
)

var (
	cfgPath   string
	colorMode string
)

// errReported is returned by commands that already printed their failure.
var errReported = errors.New("failure already reported")

// loadConfig loads the configuration named by --config. Without the flag a
// missing config.yaml in the working directory falls back to the defaults.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path := cfgPath
	if path == "" {
		path = "."
	}

	configuration, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && cfgPath == "":
		configuration = config.Default(afero.NewOsFs())
	case errors.Is(err, fs.ErrNotExist):
		log.New(cmd.ErrOrStderr(), "", 0).Println("Couldn't load config: did you run init?")
		return nil, err
	case err != nil:
		return nil, err
	}

	if colorMode != "" {
		configuration.Color = colorMode
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return configuration, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "neoshell",
	Short: "A staged command language",
	Long: `neoshell runs scripts written in a small command language. Each script is
compiled first: compile-time commands run, macros expand, and the runtime
commands that remain are executed.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if errors.Is(err, errReported) {
		os.Exit(1)
	}
	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config path (directory or config.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "colorize diagnostics (always|auto|never)")
}
