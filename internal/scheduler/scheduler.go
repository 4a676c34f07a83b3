package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Every runs task once immediately, then on each tick until ctx is done.
// Runs never overlap; a tick that fires during a run is dropped.
func Every(ctx context.Context, log *zap.SugaredLogger, interval time.Duration, name string, task Task) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		start := time.Now()
		if err := task(ctx); err != nil {
			log.Warnw("scheduled task failed", "task", name, "err", err)
			return
		}
		log.Debugw("scheduled task done", "task", name, "took", time.Since(start))
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
