package scheduler

import (
	"context"
	"time"

	"github.com/phuslu/log"
)

type Task func(ctx context.Context) error

// Every runs task once right away and then on every tick until ctx is
// done. A failing run is logged and the loop carries on.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		if err := task(ctx); err != nil {
			log.Error().Err(err).Str("task", name).Msg("scheduled run failed")
		}
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
