package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoop(t *testing.T) (*Loop, *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Time{})
	return NewLoop(clock, nil), clock
}

// ── Tick ordering ────────────────────────────────────────────────────────────

func TestLoop_TickOrder(t *testing.T) {
	loop, _ := newTestLoop(t)
	var got []string

	loop.OnLateUpdate(func(Frame) { got = append(got, "late") })
	loop.OnUpdate(func(Frame) { got = append(got, "update") })
	loop.Delay(0, func() { got = append(got, "timer") })
	loop.Post(func() { got = append(got, "posted") })

	loop.Tick()
	assert.Equal(t, []string{"posted", "timer", "update", "late"}, got)
}

func TestLoop_PostFromPostedTaskRunsSameFrame(t *testing.T) {
	loop, _ := newTestLoop(t)
	var got []int
	loop.Post(func() {
		got = append(got, 1)
		loop.Post(func() { got = append(got, 2) })
	})

	loop.Tick()
	assert.Equal(t, []int{1, 2}, got)
}

// ── Delay ────────────────────────────────────────────────────────────────────

func TestLoop_DelayFiresAfterDueTime(t *testing.T) {
	loop, clock := newTestLoop(t)
	fired := 0
	timer := loop.Delay(100*time.Millisecond, func() { fired++ })

	loop.Tick()
	assert.Equal(t, 0, fired)
	assert.True(t, timer.Pending())

	clock.Advance(100 * time.Millisecond)
	loop.Tick()
	loop.Tick()
	assert.Equal(t, 1, fired)
	assert.False(t, timer.Pending())
}

func TestLoop_DelayCancel(t *testing.T) {
	loop, clock := newTestLoop(t)
	fired := false
	timer := loop.Delay(10*time.Millisecond, func() { fired = true })

	assert.True(t, timer.Cancel())
	assert.False(t, timer.Cancel())

	clock.Advance(time.Second)
	loop.Tick()
	assert.False(t, fired)

	var nilTimer *Timer
	assert.False(t, nilTimer.Cancel())
}

func TestLoop_TimerCancelsLaterTimerInSameFrame(t *testing.T) {
	loop, clock := newTestLoop(t)
	var second *Timer
	secondFired := false
	loop.Delay(10*time.Millisecond, func() { second.Cancel() })
	second = loop.Delay(20*time.Millisecond, func() { secondFired = true })

	clock.Advance(time.Second)
	loop.Tick()
	assert.False(t, secondFired)
}

// ── WaitUntilTrue ────────────────────────────────────────────────────────────

func TestLoop_WaitUntilTrue_Condition(t *testing.T) {
	loop, _ := newTestLoop(t)
	ready := false
	calls := 0
	loop.WaitUntilTrue(func() bool { return ready }, func() { calls++ }, time.Second, func() {
		t.Fatal("timeout must not fire")
	})

	loop.Tick()
	assert.Equal(t, 0, calls)

	ready = true
	loop.Tick()
	loop.Tick()
	assert.Equal(t, 1, calls)
}

func TestLoop_WaitUntilTrue_Timeout(t *testing.T) {
	loop, clock := newTestLoop(t)
	timeouts := 0
	loop.WaitUntilTrue(func() bool { return false }, func() {
		t.Fatal("condition never holds")
	}, 100*time.Millisecond, func() { timeouts++ })

	clock.Advance(50 * time.Millisecond)
	loop.Tick()
	assert.Equal(t, 0, timeouts)

	clock.Advance(50 * time.Millisecond)
	loop.Tick()
	loop.Tick()
	assert.Equal(t, 1, timeouts)
}

func TestLoop_WaitUntilTrue_NoTimeoutWithoutHandler(t *testing.T) {
	loop, clock := newTestLoop(t)
	w := loop.WaitUntilTrue(func() bool { return false }, func() {}, 0, nil)

	clock.Advance(time.Hour)
	loop.Tick()
	w.Cancel()
	assert.Equal(t, 0, loop.update.Len())
}

// ── Seconds / frames ─────────────────────────────────────────────────────────

func TestLoop_SecondsAndFrameDelta(t *testing.T) {
	loop, clock := newTestLoop(t)
	var deltas []time.Duration
	loop.OnUpdate(func(f Frame) { deltas = append(deltas, f.Delta) })

	clock.Advance(16 * time.Millisecond)
	loop.Tick()
	clock.Advance(20 * time.Millisecond)
	loop.Tick()

	assert.Equal(t, []time.Duration{16 * time.Millisecond, 20 * time.Millisecond}, deltas)
	assert.InDelta(t, 0.036, loop.Seconds(), 1e-9)
	assert.Equal(t, int64(2), loop.FrameNumber())
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestLoop_StartTicksUntilStopped(t *testing.T) {
	loop := NewLoop(SystemClock{}, nil)
	var frames atomic.Int64
	loop.OnUpdate(func(Frame) { frames.Add(1) })

	loop.Start(context.Background(), 5*time.Millisecond)
	require.Eventually(t, func() bool { return frames.Load() >= 3 }, time.Second, time.Millisecond)
	loop.Stop()

	stopped := frames.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, frames.Load())
}

func TestLoop_Call(t *testing.T) {
	loop := NewLoop(SystemClock{}, nil)
	loop.Start(context.Background(), time.Millisecond)
	defer loop.Stop()

	var got int64
	err := loop.Call(context.Background(), func() { got = loop.FrameNumber() + 1 })
	require.NoError(t, err)
	assert.Positive(t, got)
}

func TestLoop_CallTimesOutWhenNotRunning(t *testing.T) {
	loop, _ := newTestLoop(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := loop.Call(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
