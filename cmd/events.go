package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/josephlewis42/neoshell/core/logger"
)

var (
	eventsSessions bool
	eventsYAML     bool
)

// summarizeEvents reads a JSON lines event log and writes a report of it.
func summarizeEvents(r io.Reader, w io.Writer, sessions, asYAML bool) error {
	var report interface{}
	if sessions {
		sessionReport := &logger.SessionReport{}
		if err := logger.ReadJSONLinesLog(r, sessionReport.Update); err != nil {
			return err
		}
		report = sessionReport
	} else {
		summary := logger.NewReport()
		if err := logger.ReadJSONLinesLog(r, summary.Update); err != nil {
			return err
		}
		report = summary
	}

	var (
		out []byte
		err error
	)
	if asYAML {
		out, err = yaml.Marshal(report)
	} else {
		out, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}

var eventsCmd = &cobra.Command{
	Use:   "events FILE",
	Short: "Summarize an event log.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		return summarizeEvents(fd, cmd.OutOrStdout(), eventsSessions, eventsYAML)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().BoolVar(&eventsSessions, "sessions", false, "summarize each session")
	eventsCmd.Flags().BoolVar(&eventsYAML, "yaml", false, "write the report as YAML")
}
