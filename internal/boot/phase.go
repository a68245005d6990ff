package boot

import "fmt"

// Phase represents a phase of the startup sequence.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseWait
	PhaseBootstrap
	PhaseLocalize
	PhaseDispatch
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseWait:
		return "wait"
	case PhaseBootstrap:
		return "bootstrap"
	case PhaseLocalize:
		return "localize"
	case PhaseDispatch:
		return "dispatch"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}
