package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ErrNotFound is returned when the program to dispatch is not on PATH
var ErrNotFound = errors.New("command not found")

// Replace resolves argv[0] on PATH and replaces the current process image
// with it. The new program keeps this PID, so signals sent to the container
// reach it directly.
func (e *LocalExecutor) Replace(argv []string) error {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, argv[0])
	}

	if e.Dir != "" {
		if err := os.Chdir(e.Dir); err != nil {
			return fmt.Errorf("failed to change directory: %w", err)
		}
	}

	if err := unix.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("failed to exec %s: %w", path, err)
	}
	return nil
}
