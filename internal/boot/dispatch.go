package boot

import (
	"errors"
	"strconv"

	"github.com/yoanbernabeu/frankenboot/internal/config"
	"github.com/yoanbernabeu/frankenboot/internal/constants"
	"github.com/yoanbernabeu/frankenboot/internal/proc"
)

// DefaultCommand returns the long-running process for the configured mode.
func DefaultCommand(cfg *config.Config) []string {
	addr := constants.ListenAddr(cfg.App.Port)

	if cfg.IsProduction() {
		return []string{
			constants.GunicornBinary,
			cfg.App.WSGIModule,
			"--bind", addr,
			"--workers", strconv.Itoa(cfg.Gunicorn.Workers),
			"--timeout", strconv.Itoa(cfg.Gunicorn.Timeout),
		}
	}

	return ManageCommand(cfg, "runserver", addr)
}

// ResolveCommand returns args verbatim when present, the mode default otherwise.
func ResolveCommand(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return DefaultCommand(cfg)
}

// dispatchError classifies a failed process replacement
func dispatchError(err error) *Error {
	e := NewSetupError(PhaseDispatch, err)
	if errors.Is(err, proc.ErrNotFound) {
		e.ExitCode = constants.ExitCommandNotFound
	}
	return e
}
