package boot

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/yoanbernabeu/frankenboot/internal/constants"
	"github.com/yoanbernabeu/frankenboot/internal/probe"
)

// maxProbeDuration bounds a single probe when sizing the retry budget.
// Only the attempt ceiling is meant to stop the loop.
const maxProbeDuration = time.Minute

// Waiter blocks until a prober succeeds or the attempt ceiling is reached
type Waiter struct {
	prober    probe.Prober
	retries   int
	interval  time.Duration
	onAttempt func(attempt, max int, err error)
}

// NewWaiter creates a waiter with the default ceiling and interval
func NewWaiter(prober probe.Prober) *Waiter {
	return &Waiter{
		prober:   prober,
		retries:  constants.WaitMaxAttempts,
		interval: constants.WaitInterval,
	}
}

// SetRetries sets the maximum number of probe attempts
func (w *Waiter) SetRetries(retries int) {
	w.retries = retries
}

// SetInterval sets the sleep between two probes
func (w *Waiter) SetInterval(interval time.Duration) {
	w.interval = interval
}

// OnAttempt sets a callback invoked after every failed probe
func (w *Waiter) OnAttempt(fn func(attempt, max int, err error)) {
	w.onAttempt = fn
}

// WaitResult contains the outcome of a wait
type WaitResult struct {
	Ready    bool
	Attempts int
	LastErr  error
	Elapsed  time.Duration
}

// Wait probes sequentially, sleeping the interval between failed attempts.
// The attempt counter grows by one per failed probe and is never reset.
func (w *Waiter) Wait(ctx context.Context) (*WaitResult, error) {
	result := &WaitResult{}
	retries := max(w.retries, 1)

	var lastCause error
	operation := func() (struct{}, error) {
		result.Attempts++
		err := w.prober.Probe(ctx)
		if err == nil {
			return struct{}{}, nil
		}
		if probe.IsPermanent(err) {
			result.LastErr = err
			return struct{}{}, backoff.Permanent(err)
		}
		lastCause = err
		transient := &Error{Kind: KindTransient, Phase: PhaseWait, Err: err}
		result.LastErr = transient
		if w.onAttempt != nil {
			w.onAttempt(result.Attempts, retries, transient)
		}
		return struct{}{}, transient
	}

	start := time.Now()
	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(w.interval)),
		backoff.WithMaxTries(uint(retries)),
		backoff.WithMaxElapsedTime(time.Duration(retries)*(w.interval+maxProbeDuration)),
	)
	result.Elapsed = time.Since(start)

	switch {
	case err == nil:
		result.Ready = true
		return result, nil
	case probe.IsPermanent(err):
		return result, NewSetupError(PhaseWait, err)
	case ctx.Err() != nil:
		return result, fmt.Errorf("wait interrupted after %d attempts: %w", result.Attempts, ctx.Err())
	default:
		return result, &Error{
			Kind:     KindCeilingExceeded,
			Phase:    PhaseWait,
			ExitCode: constants.ExitFailure,
			Err:      fmt.Errorf("gave up after %d attempts: %w", result.Attempts, lastCause),
		}
	}
}
