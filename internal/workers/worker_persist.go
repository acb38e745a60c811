// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
)

const defaultPersistInterval = 5 * time.Second

type persistWorker struct {
	flusher  PersistFlusher
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPersistWorker flushes persisted stores every interval. If interval is
// zero or negative it defaults to 5 seconds. A last flush runs on Stop so
// no acknowledged write is lost on shutdown.
func NewPersistWorker(flusher PersistFlusher, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = defaultPersistInterval
	}
	return &persistWorker{
		flusher:  flusher,
		interval: interval,
		logger:   log.WithComponent("persist-worker"),
	}
}

func (p *persistWorker) Run(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				// the parent context may be gone already
				p.flush(context.WithoutCancel(jobCtx))
				return
			case <-t.C:
				p.flush(jobCtx)
			}
		}
	}()
}

func (p *persistWorker) flush(ctx context.Context) {
	if err := p.flusher.FlushPersisted(ctx); err != nil {
		p.logger.Err(err).Str("func", "persistWorker.flush").Msg("failed to flush persisted stores")
	}
}

func (p *persistWorker) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}
