package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait until the database accepts connections",
	Long: `Probes the configured PostgreSQL server until it accepts a
connection, then exits 0. No bootstrap step is run and nothing is
dispatched.

Useful as an init container or a compose one-shot service.

Example:
  frankenboot wait
  frankenboot wait --max-attempts 10 --interval 2s`,
	Args: cobra.NoArgs,
	RunE: runWait,
}

var (
	waitMaxAttempts int
	waitInterval    time.Duration
)

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntVar(&waitMaxAttempts, "max-attempts", 0, "Maximum probe attempts (default: WAIT_MAX_ATTEMPTS or 60)")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", 0, "Delay between attempts (default: WAIT_INTERVAL or 1s)")
}

func runWait(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("max-attempts") {
		cfg.Wait.MaxAttempts = waitMaxAttempts
	}
	if cmd.Flags().Changed("interval") {
		cfg.Wait.Interval = waitInterval
	}
	if cfg.Wait.MaxAttempts < 1 {
		PrintWarning("--max-attempts must be at least 1, using 1")
		cfg.Wait.MaxAttempts = 1
	}

	o, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}
	return o.Wait(cmd.Context())
}
