package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvery_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32

	done := make(chan struct{})
	go func() {
		Every(ctx, 5*time.Millisecond, "test", func(context.Context) error {
			runs.Add(1)
			return errors.New("keeps going")
		})
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Every did not return after cancel")
	}
}

func TestEvery_RunsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{}, 1)
	go Every(ctx, time.Hour, "test", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("first run did not happen before the first tick")
	}
}
