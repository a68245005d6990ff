package boot

import (
	"errors"
	"fmt"

	"github.com/yoanbernabeu/frankenboot/internal/constants"
)

// Kind classifies entrypoint failures by how they must be handled.
type Kind int

const (
	// KindSetup is a missing capability or unusable configuration. Never retried.
	KindSetup Kind = iota + 1
	// KindTransient means the database is not ready yet. Absorbed by the waiter.
	KindTransient
	// KindCeilingExceeded means the wait loop ran out of attempts.
	KindCeilingExceeded
	// KindMandatoryStep means a required bootstrap command failed.
	KindMandatoryStep
	// KindToleratedStep means a best-effort command failed. Only logged.
	KindToleratedStep
)

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup error"
	case KindTransient:
		return "dependency unavailable"
	case KindCeilingExceeded:
		return "dependency unavailable after retries"
	case KindMandatoryStep:
		return "bootstrap step failed"
	case KindToleratedStep:
		return "optional step failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error is the typed failure carried out of the orchestrator.
type Error struct {
	Kind     Kind
	Phase    Phase
	Step     string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Phase, e.Kind)
	if e.Step != "" {
		msg += fmt.Sprintf(" (%s", e.Step)
		if e.Kind == KindMandatoryStep || e.Kind == KindToleratedStep {
			msg += fmt.Sprintf(", exit %d", e.ExitCode)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewSetupError wraps err as a setup failure in the given phase.
func NewSetupError(phase Phase, err error) *Error {
	return &Error{Kind: KindSetup, Phase: phase, ExitCode: constants.ExitSetup, Err: err}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return constants.ExitOK
	}
	var be *Error
	if errors.As(err, &be) && be.ExitCode > 0 {
		return be.ExitCode
	}
	return constants.ExitFailure
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}
