package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/telhawk-systems/authhawk/internal/aggregator"
	"github.com/telhawk-systems/authhawk/internal/analyze"
	"github.com/telhawk-systems/authhawk/internal/hunt"
	"github.com/telhawk-systems/authhawk/internal/logfile"
	"github.com/telhawk-systems/authhawk/internal/logging"
	"github.com/telhawk-systems/authhawk/internal/report"
	"github.com/telhawk-systems/authhawk/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <logfile>...",
	Short: "Ingest auth logs and report failed-login activity",
	Long: `Analyze one or more SSH auth log files (plain or .gz). Classified login
events are appended to the event store; the report covers the files from
this run.`,
	Example: `  authhawk analyze /var/log/auth.log
  authhawk analyze auth.log.1.gz auth.log --threshold 5
  authhawk analyze auth.log --hunt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Fail fast on any missing input before touching the store.
		for _, path := range args {
			if _, err := os.Stat(path); err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("%w: %s", logfile.ErrNotFound, path)
				}
				return fmt.Errorf("cannot read %s: %w", path, err)
			}
		}

		threshold, _ := cmd.Flags().GetInt("threshold")
		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.Analyze.Threshold
		}
		runHunt, _ := cmd.Flags().GetBool("hunt")

		logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		agg := aggregator.NewWithCapacity(cfg.Analyze.RecentLimit)
		ing := analyze.NewIngestor(st, agg, logger)

		for _, path := range args {
			if _, err := ing.File(ctx, path); err != nil {
				return err
			}
		}

		r := report.New(os.Stdout)
		r.Summary(agg, threshold, cfg.Analyze.TopLimit)

		if runHunt {
			findings, err := hunt.NewEngine(st).Run(ctx)
			if err != nil {
				return err
			}
			r.Findings(findings)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int("threshold", 3, "failure count that flags a source as suspicious")
	analyzeCmd.Flags().Bool("hunt", false, "run threat-hunting queries after ingestion")
	analyzeCmd.Flags().String("store", "", "override the sqlite store path")
}

// openStore builds the configured store backend, honoring the --store
// override where the command defines it.
func openStore(cmd *cobra.Command) (store.Store, error) {
	opts := store.Options{
		Type:        cfg.Store.Type,
		SQLitePath:  cfg.Store.SQLite.Path,
		PostgresURL: cfg.Store.Postgres.ConnString(),
	}

	if path, err := cmd.Flags().GetString("store"); err == nil && path != "" {
		opts.Type = "sqlite"
		opts.SQLitePath = path
	}

	st, err := store.Open(cmd.Context(), opts)
	if err != nil {
		if errors.Is(err, store.ErrUnknownBackend) {
			return nil, fmt.Errorf("%w (check store.type in config)", err)
		}
		return nil, err
	}
	return st, nil
}
