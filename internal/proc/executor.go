package proc

import "context"

// Executor abstracts local process execution for testability.
type Executor interface {
	// Exec runs argv to completion. A non-zero exit is reported through
	// ExecResult.ExitCode, not as an error.
	Exec(ctx context.Context, argv []string) (*ExecResult, error)
	// Replace turns the current process into argv. It only returns on failure.
	Replace(argv []string) error
}
