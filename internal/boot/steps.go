package boot

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yoanbernabeu/frankenboot/internal/config"
	"github.com/yoanbernabeu/frankenboot/internal/constants"
	"github.com/yoanbernabeu/frankenboot/internal/proc"
	"github.com/yoanbernabeu/frankenboot/internal/security"
)

// Step is one external bootstrap action. Every step must be safe to run on
// each container start.
type Step interface {
	Name() string
	Mandatory() bool
	Run(ctx context.Context) (int, error)
}

// prefixExecutor is implemented by executors that can label output lines.
type prefixExecutor interface {
	ExecWithPrefix(ctx context.Context, argv []string, prefix string) (*proc.ExecResult, error)
}

// CommandStep runs an external command as a bootstrap step
type CommandStep struct {
	name      string
	mandatory bool
	argv      []string
	executor  proc.Executor
}

// NewCommandStep creates a step running argv through executor
func NewCommandStep(name string, mandatory bool, executor proc.Executor, argv ...string) *CommandStep {
	return &CommandStep{name: name, mandatory: mandatory, argv: argv, executor: executor}
}

func (s *CommandStep) Name() string    { return s.name }
func (s *CommandStep) Mandatory() bool { return s.mandatory }

// Argv returns the command line of the step
func (s *CommandStep) Argv() []string { return s.argv }

// Run executes the command and returns its exit status. The error is only
// set when the command could not run to completion.
func (s *CommandStep) Run(ctx context.Context) (int, error) {
	var (
		res *proc.ExecResult
		err error
	)
	if pe, ok := s.executor.(prefixExecutor); ok {
		res, err = pe.ExecWithPrefix(ctx, s.argv, "["+s.name+"] ")
	} else {
		res, err = s.executor.Exec(ctx, s.argv)
	}
	if err != nil {
		if res != nil {
			return res.ExitCode, err
		}
		return -1, err
	}
	return res.ExitCode, nil
}

// Sequence is an ordered list of steps run within one phase
type Sequence struct {
	Phase Phase
	Steps []Step
}

// Run executes the steps in order. A failed mandatory step aborts the
// sequence; a failed optional step is logged and skipped.
func (q Sequence) Run(ctx context.Context, log zerolog.Logger) error {
	for _, step := range q.Steps {
		log.Info().Str("phase", q.Phase.String()).Str("step", step.Name()).Msg("running step")

		code, err := step.Run(ctx)
		if ctx.Err() != nil {
			return fmt.Errorf("%s interrupted: %w", step.Name(), ctx.Err())
		}
		if err == nil && code == 0 {
			log.Debug().Str("step", step.Name()).Msg("step completed")
			continue
		}

		failure := &Error{
			Kind:     KindToleratedStep,
			Phase:    q.Phase,
			Step:     step.Name(),
			ExitCode: code,
			Err:      err,
		}

		if !step.Mandatory() {
			log.Warn().Err(failure).Str("step", step.Name()).Int("exit_code", code).Msg("optional step failed, continuing")
			continue
		}

		failure.Kind = KindMandatoryStep
		if failure.ExitCode <= 0 {
			failure.ExitCode = constants.ExitFailure
			if errors.Is(err, proc.ErrEmptyCommand) {
				failure.ExitCode = constants.ExitSetup
			}
		}
		return failure
	}
	return nil
}

// Step names
const (
	StepMakeMigrations  = "makemigrations"
	StepMigrate         = "migrate"
	StepCollectStatic   = "collectstatic"
	StepCompileMessages = "compilemessages"
)

// ManageCommand returns the argv for a manage.py subcommand
func ManageCommand(cfg *config.Config, args ...string) []string {
	return append([]string{cfg.App.Python, cfg.App.ManagePy}, args...)
}

// BootstrapSequence returns the migration and static asset steps
func BootstrapSequence(cfg *config.Config, executor proc.Executor) Sequence {
	return Sequence{
		Phase: PhaseBootstrap,
		Steps: []Step{
			NewCommandStep(StepMakeMigrations, false, executor, ManageCommand(cfg, "makemigrations", "--noinput")...),
			NewCommandStep(StepMigrate, true, executor, ManageCommand(cfg, "migrate", "--noinput")...),
			NewCommandStep(StepCollectStatic, true, executor, ManageCommand(cfg, "collectstatic", "--noinput")...),
		},
	}
}

// LocalizeSequence returns the message compilation step
func LocalizeSequence(cfg *config.Config, executor proc.Executor) Sequence {
	return Sequence{
		Phase: PhaseLocalize,
		Steps: []Step{
			NewCommandStep(StepCompileMessages, false, executor, ManageCommand(cfg, "compilemessages")...),
		},
	}
}

// GateOpen reports whether the bootstrap sequence runs for this start.
func GateOpen(cfg *config.Config) bool {
	return cfg.IsProduction() || cfg.RunMigrations
}

// describeSteps renders step command lines for logging
func describeSteps(q Sequence) []string {
	var out []string
	for _, s := range q.Steps {
		if cs, ok := s.(*CommandStep); ok {
			out = append(out, security.SanitizeArgsForLog(cs.Argv()))
		} else {
			out = append(out, s.Name())
		}
	}
	return out
}
