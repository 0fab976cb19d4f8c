package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/telhawk-systems/authhawk/internal/hunt"
	"github.com/telhawk-systems/authhawk/internal/report"
	"github.com/telhawk-systems/authhawk/pkg/output"
)

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Run threat-hunting queries over the event store",
	Long: `Hunt runs the fixed query set against everything the store has seen:
brute-force ranking, targeted users, hourly failure distribution and
multi-identity scan detection. It needs no log files; re-running it against
an unchanged store yields identical results.`,
	Example: `  authhawk hunt
  authhawk hunt --output json
  authhawk hunt --store ./events.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		findings, err := hunt.NewEngine(st).Run(cmd.Context())
		if err != nil {
			return err
		}

		switch format, _ := cmd.Flags().GetString("output"); format {
		case "json":
			return output.JSON(findings)
		case "yaml":
			return output.YAML(findings)
		default:
			report.New(os.Stdout).Findings(findings)
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(huntCmd)

	huntCmd.Flags().String("output", "text", "output format: text, json, yaml")
	huntCmd.Flags().String("store", "", "override the sqlite store path")
}
