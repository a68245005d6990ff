package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// ErrEmptyCommand is returned when an empty argument vector is executed
var ErrEmptyCommand = errors.New("empty command")

// DefaultGracePeriod is how long a cancelled subprocess gets between SIGTERM and SIGKILL
const DefaultGracePeriod = 5 * time.Second

// ExecResult holds the result of a command execution
type ExecResult struct {
	ExitCode int
	Duration time.Duration
}

// LocalExecutor runs commands on the local machine, streaming their output.
type LocalExecutor struct {
	Dir         string
	Stdout      io.Writer
	Stderr      io.Writer
	GracePeriod time.Duration
}

// NewLocalExecutor creates an executor writing to the process stdout/stderr
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		GracePeriod: DefaultGracePeriod,
	}
}

// Exec executes argv and waits for it, streaming its output unchanged.
func (e *LocalExecutor) Exec(ctx context.Context, argv []string) (*ExecResult, error) {
	return e.ExecWithPrefix(ctx, argv, "")
}

// ExecWithPrefix executes argv, prefixing each output line with prefix so
// bootstrap output stays readable in container logs.
func (e *LocalExecutor) ExecWithPrefix(ctx context.Context, argv []string, prefix string) (*ExecResult, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	grace := e.GracePeriod
	if grace == 0 {
		grace = DefaultGracePeriod
	}

	stdout := newPrefixWriter(orDiscard(e.Stdout), prefix)
	stderr := newPrefixWriter(orDiscard(e.Stderr), prefix)

	c := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // running configured commands is the purpose of this package
	c.Dir = e.Dir
	c.Stdout = stdout
	c.Stderr = stderr
	// SIGTERM first; WaitDelay escalates to SIGKILL
	c.Cancel = func() error {
		return c.Process.Signal(syscall.SIGTERM)
	}
	c.WaitDelay = grace

	start := time.Now()
	err := c.Run()
	stdout.Flush()
	stderr.Flush()

	result := &ExecResult{
		ExitCode: 0,
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() != nil {
			result.ExitCode = -1
			return result, fmt.Errorf("command killed: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	return result, nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// prefixWriter writes complete lines to w, each preceded by prefix.
// A trailing partial line is held until Flush.
type prefixWriter struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	buf    bytes.Buffer
}

func newPrefixWriter(w io.Writer, prefix string) *prefixWriter {
	return &prefixWriter{w: w, prefix: prefix}
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Write(b)
	for {
		line, err := p.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line: put it back for the next write
			p.buf.Reset()
			p.buf.Write(line)
			break
		}
		if len(line) > 1 {
			if _, werr := fmt.Fprintf(p.w, "%s%s", p.prefix, line); werr != nil {
				return len(b), werr
			}
		}
	}
	return len(b), nil
}

// Flush writes any buffered partial line.
func (p *prefixWriter) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buf.Len() == 0 {
		return
	}
	fmt.Fprintf(p.w, "%s%s\n", p.prefix, p.buf.String())
	p.buf.Reset()
}
