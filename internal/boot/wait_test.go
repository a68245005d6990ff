package boot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoanbernabeu/frankenboot/internal/probe"
)

// fakeProber fails until readyOn attempts have been made. readyOn == 0
// means it never becomes ready.
type fakeProber struct {
	readyOn int
	calls   int
	err     error
	times   []time.Time
}

func (f *fakeProber) Probe(_ context.Context) error {
	f.calls++
	f.times = append(f.times, time.Now())
	if f.readyOn > 0 && f.calls >= f.readyOn {
		return nil
	}
	if f.err != nil {
		return f.err
	}
	return errors.New("connection refused")
}

func newTestWaiter(p probe.Prober, retries int, interval time.Duration) *Waiter {
	w := NewWaiter(p)
	w.SetRetries(retries)
	w.SetInterval(interval)
	return w
}

func TestWaiter_NeverReady(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		t.Run(fmt.Sprintf("ceiling_%d", n), func(t *testing.T) {
			p := &fakeProber{}
			interval := 10 * time.Millisecond
			w := newTestWaiter(p, n, interval)

			result, err := w.Wait(context.Background())
			require.Error(t, err)
			assert.True(t, IsKind(err, KindCeilingExceeded), "got %v", err)
			assert.Equal(t, 1, ExitCode(err))
			assert.Equal(t, n, p.calls)
			assert.Equal(t, n, result.Attempts)
			assert.False(t, result.Ready)
			assert.True(t, IsKind(result.LastErr, KindTransient), "got %v", result.LastErr)
			assert.ErrorContains(t, result.LastErr, "connection refused")
			assert.False(t, IsKind(err, KindTransient))

			for i := 1; i < len(p.times); i++ {
				gap := p.times[i].Sub(p.times[i-1])
				assert.GreaterOrEqual(t, gap, interval, "probes %d and %d too close", i-1, i)
			}
		})
	}
}

func TestWaiter_ReadyOnAttemptK(t *testing.T) {
	for _, k := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("ready_on_%d", k), func(t *testing.T) {
			p := &fakeProber{readyOn: k}
			w := newTestWaiter(p, 5, time.Millisecond)

			result, err := w.Wait(context.Background())
			require.NoError(t, err)
			assert.True(t, result.Ready)
			assert.Equal(t, k, result.Attempts)
			assert.Equal(t, k, p.calls)
		})
	}
}

func TestWaiter_ReadyOnLastAttempt(t *testing.T) {
	p := &fakeProber{readyOn: 3}
	w := newTestWaiter(p, 3, time.Millisecond)

	result, err := w.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempts)
}

func TestWaiter_PermanentErrorStopsImmediately(t *testing.T) {
	p := &fakeProber{err: fmt.Errorf("%w: %q", probe.ErrUnsupportedEngine, "mysql")}
	w := newTestWaiter(p, 10, time.Millisecond)

	result, err := w.Wait(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSetup))
	assert.ErrorIs(t, err, probe.ErrUnsupportedEngine)
	assert.Equal(t, 2, ExitCode(err))
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 1, result.Attempts)
}

func TestWaiter_OnAttempt(t *testing.T) {
	p := &fakeProber{readyOn: 4}
	w := newTestWaiter(p, 10, time.Millisecond)

	var seen []int
	w.OnAttempt(func(attempt, max int, err error) {
		assert.Equal(t, 10, max)
		assert.True(t, IsKind(err, KindTransient), "got %v", err)
		seen = append(seen, attempt)
	})

	_, err := w.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen, "counter must grow by one per failed probe")
}

func TestWaiter_ContextCancel(t *testing.T) {
	p := &fakeProber{}
	w := newTestWaiter(p, 1000, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := w.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsKind(err, KindCeilingExceeded))
	assert.Less(t, result.Attempts, 1000)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWaiter_Defaults(t *testing.T) {
	w := NewWaiter(&fakeProber{})
	assert.Equal(t, 60, w.retries)
	assert.Equal(t, time.Second, w.interval)
}

func TestWaiter_ZeroRetriesProbesOnceWithoutMutating(t *testing.T) {
	p := &fakeProber{}
	w := newTestWaiter(p, 0, time.Millisecond)

	result, err := w.Wait(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCeilingExceeded))
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 0, w.retries, "Wait must not rewrite the configured ceiling")
}

func TestWaiter_CeilingMessageNamesCause(t *testing.T) {
	w := newTestWaiter(&fakeProber{}, 2, time.Millisecond)

	_, err := w.Wait(context.Background())
	require.Error(t, err)
	assert.EqualError(t, err, "wait: dependency unavailable after retries: gave up after 2 attempts: connection refused")
}
