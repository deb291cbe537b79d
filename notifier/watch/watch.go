package watch

import (
	"context"
	"errors"
	"log"
	"time"

	"tg_poller/events"
	"tg_poller/lib/wait"
	"tg_poller/notifier"
)

var ErrInvalidDelay = errors.New("watch delay must be positive")

type Func func(ctx context.Context, opts *events.Options)

// Watcher repeatedly calls fn with the shared options, sleeping delay after
// each call. It runs independently of the polling loop.
type Watcher struct {
	fn    Func
	opts  *events.Options
	delay time.Duration
	done  chan struct{}
}

var _ notifier.Notifier = (*Watcher)(nil)

func New(fn Func, opts *events.Options, delay time.Duration) *Watcher {
	return &Watcher{
		fn:    fn,
		opts:  opts,
		delay: delay,
		done:  make(chan struct{}),
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	if w.delay <= 0 {
		return ErrInvalidDelay
	}

	go func() {
		defer close(w.done)

		for {
			w.fn(ctx, w.opts)

			if !wait.Sleep(ctx, w.delay) {
				log.Println("watcher stopped")
				return
			}
		}
	}()

	return nil
}

// Done is closed once the loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}
