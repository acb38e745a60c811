package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
)

// loopWorker ticks a peer's frame loop.
type loopWorker struct {
	loop     *scheduler.Loop
	interval time.Duration
}

func NewLoopWorker(loop *scheduler.Loop, interval time.Duration) Worker {
	return &loopWorker{loop: loop, interval: interval}
}

func (l *loopWorker) Run(ctx context.Context) { l.loop.Start(ctx, l.interval) }

func (l *loopWorker) Stop() { l.loop.Stop() }
