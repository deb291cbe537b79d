package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tg_poller/events"
)

func TestWatcher_CallsUntilCancelled(t *testing.T) {
	opts := events.NewOptions()
	opts.Set("enabled", true)

	var calls atomic.Int32
	var sawOption atomic.Bool

	ctx, cancel := context.WithCancel(context.Background())
	w := New(func(ctx context.Context, o *events.Options) {
		if o.Bool("enabled") {
			sawOption.Store(true)
		}
		calls.Add(1)
	}, opts, 5*time.Millisecond)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 3 calls, got %d", calls.Load())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}

	if !sawOption.Load() {
		t.Fatal("callback did not receive the shared options")
	}
}

func TestWatcher_CallsBeforeSleeping(t *testing.T) {
	called := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(func(ctx context.Context, o *events.Options) {
		select {
		case called <- struct{}{}:
		default:
		}
	}, events.NewOptions(), time.Hour)
	_ = w.Start(ctx)

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("first call should not wait for the delay")
	}
}

func TestWatcher_RejectsZeroDelay(t *testing.T) {
	var calls atomic.Int32

	w := New(func(ctx context.Context, o *events.Options) {
		calls.Add(1)
	}, events.NewOptions(), 0)

	if err := w.Start(context.Background()); !errors.Is(err, ErrInvalidDelay) {
		t.Fatalf("expected ErrInvalidDelay, got %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("callback ran %d times", calls.Load())
	}
}
