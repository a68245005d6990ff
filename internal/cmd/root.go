package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/frankenboot/internal/boot"
	"github.com/yoanbernabeu/frankenboot/internal/config"
	"github.com/yoanbernabeu/frankenboot/internal/logger"
	"github.com/yoanbernabeu/frankenboot/internal/probe"
	"github.com/yoanbernabeu/frankenboot/internal/proc"
	"github.com/yoanbernabeu/frankenboot/internal/security"
)

var (
	// Version is set at build time
	Version = "dev"

	// log is replaced once the configuration has been loaded
	log = logger.NewFromEnv()
)

var rootCmd = &cobra.Command{
	Use:   "frankenboot [--] [command [args...]]",
	Short: "Container entrypoint for Django applications",
	Long: `FrankenBoot prepares a Django container and hands over to the
application server.

Startup sequence:
1. Waits until PostgreSQL accepts connections (60 attempts, 1s apart)
2. Runs makemigrations, migrate and collectstatic
   (always in production, in development unless RUN_MIGRATIONS=false)
3. Runs compilemessages when COMPILE_MESSAGES=true
4. Replaces itself with the given command, or with the default server:
   development: python manage.py runserver 0.0.0.0:8000
   production:  gunicorn <WSGI_MODULE> --bind 0.0.0.0:8000

Arguments after the program name are passed through verbatim. Use "--"
to run a program that shares its name with a subcommand.

Environment Variables:
  POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DB, POSTGRES_USER, POSTGRES_PASSWORD
  (or DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD)
  DJANGO_ENV          development or production
  RUN_MIGRATIONS      Run the bootstrap sequence in development (default true)
  COMPILE_MESSAGES    Compile translation files (default false)
  GUNICORN_WORKERS    Production worker count (default 3)
  GUNICORN_TIMEOUT    Production worker timeout in seconds (default 120)
  ENV_FILE            Dotenv file to load (default .env when present)`,
	Example: `  frankenboot
  frankenboot gunicorn myproject.wsgi --workers 2
  frankenboot -- wait-for-it db:5432`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE:               runBoot,
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		PrintError("%v", err)
	}
	return err
}

// GetRootCmd returns the root command, used to generate documentation
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func runBoot(cmd *cobra.Command, args []string) error {
	if isHelpRequest(args) {
		return cmd.Help()
	}
	args = stripSeparator(args)

	cfg, err := setup()
	if err != nil {
		return err
	}

	o, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		PrintVerbose("dispatch override: %s", security.SanitizeArgsForLog(args))
	}
	return o.Run(cmd.Context(), args)
}

// setup loads the configuration and reconfigures the logger from it
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, boot.NewSetupError(boot.PhaseInit, err)
	}

	log = logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

func newOrchestrator(cfg *config.Config) (*boot.Orchestrator, error) {
	prober, err := probe.New(cfg.Database, cfg.Wait.ProbeTimeout)
	if err != nil {
		return nil, boot.NewSetupError(boot.PhaseWait, err)
	}
	if pg, ok := prober.(*probe.PostgresProber); ok {
		PrintVerbose("probing %s", pg.Target())
	}
	return boot.NewOrchestrator(cfg, prober, proc.NewLocalExecutor(), log), nil
}

// stripSeparator drops a single leading "--"
func stripSeparator(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}

func isHelpRequest(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

// PrintError prints a formatted error message
func PrintError(msg string, args ...interface{}) {
	log.Error().Msgf(msg, args...)
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	log.Info().Bool("ok", true).Msgf(msg, args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	log.Warn().Msgf(msg, args...)
}

// PrintVerbose prints a message only at debug level
func PrintVerbose(msg string, args ...interface{}) {
	log.Debug().Msgf(msg, args...)
}
