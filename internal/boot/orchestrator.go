// Package boot sequences container startup: wait for the database, run the
// bootstrap commands, then replace the process with the application.
package boot

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/yoanbernabeu/frankenboot/internal/config"
	"github.com/yoanbernabeu/frankenboot/internal/probe"
	"github.com/yoanbernabeu/frankenboot/internal/proc"
	"github.com/yoanbernabeu/frankenboot/internal/security"
)

// Orchestrator runs the startup sequence
type Orchestrator struct {
	cfg      *config.Config
	waiter   *Waiter
	executor proc.Executor
	log      zerolog.Logger
	phase    Phase
	lookup   func(string) (string, bool)
}

// NewOrchestrator creates an orchestrator probing with prober and running
// commands through executor.
func NewOrchestrator(cfg *config.Config, prober probe.Prober, executor proc.Executor, log zerolog.Logger) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		executor: executor,
		log:      log,
		phase:    PhaseInit,
		lookup:   os.LookupEnv,
	}

	o.waiter = NewWaiter(prober)
	o.waiter.SetRetries(cfg.Wait.MaxAttempts)
	o.waiter.SetInterval(cfg.Wait.Interval)
	o.waiter.OnAttempt(func(attempt, max int, err error) {
		o.log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", max).Msg("database unavailable, retrying")
	})

	return o
}

// Phase returns the phase the orchestrator reached
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// CheckEnv warns about application settings left at unsafe development
// values in production. It never fails the startup.
func (o *Orchestrator) CheckEnv() {
	for _, line := range FormatEnvCheck(CheckEnv(o.cfg.Mode, o.lookup)) {
		o.log.Warn().Str("mode", string(o.cfg.Mode)).Msg(line)
	}
}

// Wait blocks until the database accepts connections.
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.phase = PhaseWait
	o.log.Info().
		Str("host", o.cfg.Database.Host).
		Int("port", o.cfg.Database.Port).
		Str("database", o.cfg.Database.Name).
		Msg("waiting for database")

	result, err := o.waiter.Wait(ctx)
	if err != nil {
		return err
	}

	o.log.Info().Int("attempts", result.Attempts).Dur("elapsed", result.Elapsed).Msg("database is ready")
	return nil
}

// Bootstrap runs the gated bootstrap sequence and the optional localization step.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	o.phase = PhaseBootstrap
	if GateOpen(o.cfg) {
		seq := BootstrapSequence(o.cfg, o.executor)
		o.log.Debug().Strs("commands", describeSteps(seq)).Msg("bootstrap sequence")
		if err := seq.Run(ctx, o.log); err != nil {
			return err
		}
	} else {
		o.log.Info().Str("mode", string(o.cfg.Mode)).Msg("skipping migrations (RUN_MIGRATIONS=false)")
	}

	if o.cfg.CompileMessages {
		o.phase = PhaseLocalize
		if err := LocalizeSequence(o.cfg, o.executor).Run(ctx, o.log); err != nil {
			return err
		}
	}

	return nil
}

// Dispatch replaces the process with args, or with the mode default when
// args is empty.
func (o *Orchestrator) Dispatch(args []string) error {
	o.phase = PhaseDispatch
	argv := ResolveCommand(o.cfg, args)
	o.log.Info().Str("command", security.SanitizeArgsForLog(argv)).Msg("starting")

	if err := o.executor.Replace(argv); err != nil {
		return dispatchError(err)
	}

	o.phase = PhaseDone
	return nil
}

// Run performs the full startup sequence. The application is only
// dispatched once every mandatory bootstrap step has succeeded.
func (o *Orchestrator) Run(ctx context.Context, args []string) error {
	o.CheckEnv()
	if err := o.Wait(ctx); err != nil {
		return err
	}
	if err := o.Bootstrap(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted before dispatch: %w", err)
	}
	return o.Dispatch(args)
}
