package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/frankenboot/internal/constants"
	"github.com/yoanbernabeu/frankenboot/internal/health"
	"github.com/yoanbernabeu/frankenboot/internal/security"
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check the application HTTP endpoint",
	Long: `Sends a GET request to the application on 127.0.0.1:APP_PORT and
exits 0 on a 2xx or 3xx response, 1 otherwise.

Meant for the image HEALTHCHECK instruction:
  HEALTHCHECK CMD ["frankenboot", "healthcheck"]

Example:
  frankenboot healthcheck
  frankenboot healthcheck --path /status/ --timeout 2s`,
	Args: cobra.NoArgs,
	RunE: runHealthcheck,
}

var (
	healthPath     string
	healthTimeout  time.Duration
	healthRetries  int
	healthInterval time.Duration
)

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().StringVar(&healthPath, "path", "", "Path to request (default: HEALTHCHECK_PATH or /health/)")
	healthcheckCmd.Flags().DurationVar(&healthTimeout, "timeout", constants.HealthCheckTimeout, "Timeout of a single request")
	healthcheckCmd.Flags().IntVar(&healthRetries, "retries", constants.HealthCheckRetries, "Number of attempts")
	healthcheckCmd.Flags().DurationVar(&healthInterval, "interval", constants.HealthCheckInterval, "Delay between attempts")
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	path := cfg.App.HealthcheckPath
	if healthPath != "" {
		path = healthPath
	}
	if err := security.ValidateHealthPath(path); err != nil {
		return fmt.Errorf("invalid --path value: %w", err)
	}
	if path == "" {
		path = "/"
	}

	checker := health.NewChecker(constants.HealthcheckURL(cfg.App.Port, path))
	checker.SetTimeout(healthTimeout)
	checker.SetRetries(healthRetries)
	checker.SetInterval(healthInterval)

	result, err := checker.Check(cmd.Context())
	if err != nil {
		return err
	}
	if !result.Healthy {
		return fmt.Errorf("unhealthy after %d attempt(s): %s", result.Attempts, result.Message)
	}

	PrintSuccess("healthy (status %d, %s)", result.StatusCode, result.ResponseTime)
	return nil
}
