package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/telhawk-systems/authhawk/internal/verify"
	"github.com/telhawk-systems/authhawk/pkg/output"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify archived logs against sha256 sidecar digests",
	Long: `Verify reads every digest file matching the pattern, recomputes the
sha256 of each referenced archive and reports OK, MODIFIED or MISSING per
archive. Unreadable digest files are reported and skipped.`,
	Example: `  authhawk verify
  authhawk verify --dir /srv/log-archive --pattern "*.sha256"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Verify.Dir
		}
		pattern, _ := cmd.Flags().GetString("pattern")
		if pattern == "" {
			pattern = cfg.Verify.Pattern
		}

		results, err := verify.Dir(dir, pattern)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			output.Warn("No %s files found in %s", pattern, dir)
			return nil
		}

		modified := 0
		for _, res := range results {
			switch res.Status {
			case verify.StatusOK:
				fmt.Printf("[OK]       %s\n", res.Name)
			case verify.StatusModified:
				fmt.Printf("[MODIFIED] %s\n", res.Name)
				modified++
			case verify.StatusMissing:
				fmt.Printf("[MISSING]  %s\n", res.Name)
			case verify.StatusSkipped:
				fmt.Printf("[SKIP]     %s (empty digest file)\n", res.Name)
			case verify.StatusError:
				output.Error("could not verify %s: %v", res.Name, res.Err)
			}
		}

		if modified > 0 {
			return fmt.Errorf("%d archive(s) modified", modified)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringP("dir", "d", "", "log-archive directory (default: ~/log-archive)")
	verifyCmd.Flags().String("pattern", "", `glob for digest files (default: "*.gz.sha256")`)
}
