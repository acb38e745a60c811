// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package scheduler implements the single-threaded cooperative runtime the
// framework executes on.
//
// Every piece of framework state belongs to exactly one [Loop]. Work enters
// the loop in three ways: tasks posted from other goroutines ([Loop.Post]),
// timers ([Loop.Delay]) and per-frame callbacks ([Loop.OnUpdate],
// [Loop.OnLateUpdate]). A frame ([Loop.Tick]) runs them in that order, so
// nothing on the loop is ever interrupted mid-update.
//
// A Loop is either driven by hand (tests call Tick after advancing a
// [ManualClock]) or by Start, which ticks at a fixed frame interval until
// Stop is called or the context is cancelled.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
)

// Frame describes one tick of the loop.
type Frame struct {
	Number int64
	Time   time.Time
	Delta  time.Duration
}

// Loop is a cooperative frame scheduler.
type Loop struct {
	clock  Clock
	start  time.Time
	logger *logger.Logger

	postMu sync.Mutex
	posted []func()

	timers   []*Timer
	timerSeq int64

	update     observer.Event[Frame]
	lateUpdate observer.Event[Frame]

	frame     int64
	lastFrame time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoop creates an idle loop reading time from clock.
func NewLoop(clock Clock, log *logger.Logger) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	now := clock.Now()
	return &Loop{
		clock:     clock,
		start:     now,
		lastFrame: now,
		logger:    log,
	}
}

// Now returns the loop clock's current time.
func (l *Loop) Now() time.Time { return l.clock.Now() }

// Seconds returns the time since the loop was created, in seconds.
func (l *Loop) Seconds() float64 {
	return l.clock.Now().Sub(l.start).Seconds()
}

// FrameNumber returns the number of completed frames.
func (l *Loop) FrameNumber() int64 { return l.frame }

// Post queues fn to run on the loop at the start of the next frame.
// It is the only Loop method that is safe to call from other goroutines.
func (l *Loop) Post(fn func()) {
	l.postMu.Lock()
	l.posted = append(l.posted, fn)
	l.postMu.Unlock()
}

// OnUpdate registers fn to run every frame.
func (l *Loop) OnUpdate(fn func(Frame)) observer.Subscription {
	return l.update.Add(fn)
}

// OnLateUpdate registers fn to run every frame after all update callbacks.
func (l *Loop) OnLateUpdate(fn func(Frame)) observer.Subscription {
	return l.lateUpdate.Add(fn)
}

// Timer is a delayed callback created by Delay.
type Timer struct {
	due      time.Time
	seq      int64
	fn       func()
	canceled bool
	fired    bool
}

// Cancel prevents the timer from firing. It reports whether the timer was
// still pending. A nil timer is ignored.
func (t *Timer) Cancel() bool {
	if t == nil || t.fired || t.canceled {
		return false
	}
	t.canceled = true
	return true
}

// Pending reports whether the timer will still fire.
func (t *Timer) Pending() bool {
	return t != nil && !t.fired && !t.canceled
}

// Delay runs fn once d has elapsed, on the first frame at or after the due
// time. A zero delay fires on the next frame.
func (l *Loop) Delay(d time.Duration, fn func()) *Timer {
	l.timerSeq++
	t := &Timer{due: l.clock.Now().Add(d), seq: l.timerSeq, fn: fn}
	l.timers = append(l.timers, t)
	return t
}

// Waiter is a polling wait created by WaitUntilTrue.
type Waiter struct {
	sub  observer.Subscription
	done bool
}

// Cancel stops the wait without calling either callback.
func (w *Waiter) Cancel() {
	if w == nil || w.done {
		return
	}
	w.done = true
	w.sub.Unsubscribe()
}

// WaitUntilTrue polls cond every frame. When it holds, the wait ends and
// onTrue runs. If onTimeout is not nil and cond has not held by the time
// timeout has elapsed, the wait ends and onTimeout runs instead.
func (l *Loop) WaitUntilTrue(cond func() bool, onTrue func(), timeout time.Duration, onTimeout func()) *Waiter {
	w := &Waiter{}
	started := l.clock.Now()
	w.sub = l.OnUpdate(func(f Frame) {
		if w.done {
			return
		}
		if cond() {
			w.done = true
			w.sub.Unsubscribe()
			onTrue()
			return
		}
		if onTimeout != nil && !started.Add(timeout).After(f.Time) {
			w.done = true
			w.sub.Unsubscribe()
			onTimeout()
		}
	})
	return w
}

// Tick runs one frame: posted tasks, due timers, update and late update
// callbacks.
func (l *Loop) Tick() {
	l.drainPosted()

	now := l.clock.Now()
	l.fireTimers(now)

	l.frame++
	f := Frame{Number: l.frame, Time: now, Delta: now.Sub(l.lastFrame)}
	l.lastFrame = now

	l.update.Trigger(f)
	l.lateUpdate.Trigger(f)
}

func (l *Loop) drainPosted() {
	for {
		l.postMu.Lock()
		tasks := l.posted
		l.posted = nil
		l.postMu.Unlock()

		if len(tasks) == 0 {
			return
		}
		for _, fn := range tasks {
			fn()
		}
	}
}

func (l *Loop) fireTimers(now time.Time) {
	var due []*Timer
	pending := l.timers[:0]
	for _, t := range l.timers {
		switch {
		case t.canceled:
		case !t.due.After(now):
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	l.timers = pending

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, t := range due {
		// an earlier timer in this batch may have canceled a later one
		if t.canceled {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// Start stops any previous run, then ticks every interval on a background
// goroutine until ctx is cancelled or Stop is called. If interval is zero
// or negative it defaults to 60 frames per second.
func (l *Loop) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second / 60
	}

	l.Stop()

	l.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		l.logger.Debug().Dur("interval", interval).Msg("loop started")
		for {
			select {
			case <-loopCtx.Done():
				l.logger.Debug().Int64("frames", l.frame).Msg("loop stopped")
				return
			case <-t.C:
				l.Tick()
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has exited.
// Safe to call when the loop is not running.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

// Call runs fn on the loop and waits for it to finish. It is meant for
// goroutines outside the loop (HTTP handlers) that need a consistent view of
// loop-owned state. It returns ctx.Err() if the loop does not get to fn in
// time.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
