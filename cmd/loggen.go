package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/telhawk-systems/authhawk/internal/loggen"
	"github.com/telhawk-systems/authhawk/pkg/output"
)

var loggenCmd = &cobra.Command{
	Use:   "loggen",
	Short: "Generate synthetic sshd auth-log lines",
	Long: `Loggen writes synthetic auth.log traffic mixing a brute-force burst,
a username scan, scattered background failures and occasional successful
logins. Useful for exercising analyze and hunt without production data.`,
	Example: `  authhawk loggen --lines 500 --out auth.log
  authhawk loggen | authhawk analyze /dev/stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, _ := cmd.Flags().GetInt("lines")
		seed, _ := cmd.Flags().GetInt64("seed")
		out, _ := cmd.Flags().GetString("out")

		gen := loggen.New(loggen.Options{Lines: lines, Seed: seed})

		if out == "" || out == "-" {
			return gen.Write(os.Stdout)
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := gen.Write(f); err != nil {
			return err
		}
		output.Success("Wrote %d lines to %s", gen.Lines(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loggenCmd)

	loggenCmd.Flags().Int("lines", 200, "number of log lines to generate")
	loggenCmd.Flags().Int64("seed", 0, "random seed (0 = time-based)")
	loggenCmd.Flags().String("out", "", "output file (default: stdout)")
}
