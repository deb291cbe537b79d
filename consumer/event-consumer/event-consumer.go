package event_consumer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tg_poller/events"
	"tg_poller/lib/wait"
	"tg_poller/notifier/watch"
	"tg_poller/queue"
)

const DefaultInterval = time.Second

// Mode selects how a fetched batch is dispatched.
type Mode int

const (
	// Parallel starts every handler of a batch in its own goroutine and does
	// not wait for them.
	Parallel Mode = iota
	// Series runs handlers one after another in batch order.
	Series
)

var ErrUnknownMode = errors.New("unknown process mode")

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parallel":
		return Parallel, nil
	case "series", "sequential":
		return Series, nil
	default:
		return Parallel, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func (m Mode) String() string {
	if m == Series {
		return "series"
	}
	return "parallel"
}

type State int32

const (
	Idle State = iota
	Fetching
	Dispatching
	Sleeping
	Draining
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Dispatching:
		return "dispatching"
	case Sleeping:
		return "sleeping"
	case Draining:
		return "draining"
	default:
		return "idle"
	}
}

// Consumer is the polling engine. Each cycle fetches a batch, dispatches it,
// sleeps for the interval and then starts draining the outbound queue without
// waiting for the drain to finish.
type Consumer struct {
	fetcher  events.Fetcher
	sender   queue.Sender
	registry *events.Registry
	options  *events.Options
	queue    *queue.Queue
	mode     Mode
	interval time.Duration

	polling atomic.Bool
	state   atomic.Int32
	tasks   sync.WaitGroup
}

type Option func(*Consumer)

func WithMode(m Mode) Option {
	return func(c *Consumer) { c.mode = m }
}

// WithPolling(false) disables the loop; Start then returns at once and the
// caller drives fetching through RunOnce.
func WithPolling(enabled bool) Option {
	return func(c *Consumer) { c.polling.Store(enabled) }
}

func WithInterval(d time.Duration) Option {
	return func(c *Consumer) { c.interval = d }
}

func WithQueue(q *queue.Queue) Option {
	return func(c *Consumer) {
		if q != nil {
			c.queue = q
		}
	}
}

func New(fetcher events.Fetcher, sender queue.Sender, opts ...Option) *Consumer {
	c := &Consumer{
		fetcher:  fetcher,
		sender:   sender,
		registry: events.NewRegistry(),
		options:  events.NewOptions(),
		queue:    queue.New(queue.DefaultInterval),
		mode:     Parallel,
		interval: DefaultInterval,
	}
	c.polling.Store(true)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// On registers h for events of type t. The first handler registered for a
// type wins; later registrations are ignored.
func (c *Consumer) On(t events.Type, h events.Handler) bool {
	return c.registry.On(t, h)
}

// Init lets the caller seed options before polling starts.
func (c *Consumer) Init(configure func(opts *events.Options)) {
	configure(c.options)
}

// Watch runs fn with the options every delay in a loop of its own until ctx
// is done. delay must be positive.
func (c *Consumer) Watch(ctx context.Context, fn watch.Func, delay time.Duration) error {
	w := watch.New(fn, c.options, delay)

	c.tasks.Add(1)
	if err := w.Start(ctx); err != nil {
		c.tasks.Done()
		return err
	}

	go func() {
		defer c.tasks.Done()
		<-w.Done()
	}()

	return nil
}

func (c *Consumer) PushMessageQueue(chatId int, text string) queue.Message {
	return c.queue.Push(chatId, text)
}

func (c *Consumer) Options() *events.Options {
	return c.options
}

func (c *Consumer) State() State {
	return State(c.state.Load())
}

func (c *Consumer) Polling() bool {
	return c.polling.Load()
}

// Stop ends the loop at the top of the next cycle. The running cycle is
// completed first.
func (c *Consumer) Stop() {
	c.polling.Store(false)
}

// Wait blocks until parallel handlers, drains and watchers have returned.
func (c *Consumer) Wait() {
	c.tasks.Wait()
}

func (c *Consumer) Start(ctx context.Context) error {
	if !c.polling.Load() {
		log.Print("polling disabled")
		return nil
	}

	log.Printf("consumer started in %s mode", c.mode)
	defer c.setState(Idle)

	for c.polling.Load() && ctx.Err() == nil {
		c.cycle(ctx)
	}

	log.Print("consumer stopped")

	return nil
}

func (c *Consumer) cycle(ctx context.Context) {
	gotEvents := c.fetch(ctx)

	c.setState(Dispatching)
	c.handleEvents(ctx, gotEvents)

	c.setState(Sleeping)
	if !wait.Sleep(ctx, c.interval) {
		return
	}

	c.setState(Draining)
	c.drain(ctx)
}

// RunOnce fetches and dispatches a single batch and returns its size. It is
// the manual counterpart of Start for consumers built with WithPolling(false).
func (c *Consumer) RunOnce(ctx context.Context) int {
	gotEvents := c.fetch(ctx)

	c.setState(Dispatching)
	c.handleEvents(ctx, gotEvents)
	c.setState(Idle)

	return len(gotEvents)
}

// Flush drains the outbound queue synchronously and returns how many sends
// were attempted. Entries still queued when ctx ends are logged as dropped.
func (c *Consumer) Flush(ctx context.Context) int {
	sent := c.queue.Drain(ctx, c.sender)

	if left := c.queue.Len(); left > 0 {
		log.Printf("[ERR] consumer: %d queued messages dropped", left)
	}

	return sent
}

func (c *Consumer) fetch(ctx context.Context) []events.Event {
	c.setState(Fetching)

	gotEvents, err := c.fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("[ERR] consumer: %s", err.Error())
		return nil
	}

	return gotEvents
}

func (c *Consumer) drain(ctx context.Context) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		c.queue.Drain(ctx, c.sender)
	}()
}

func (c *Consumer) handleEvents(ctx context.Context, gotEvents []events.Event) {
	// in-flight handlers are not cancelled with the loop
	hctx := context.WithoutCancel(ctx)

	if c.mode == Series {
		for _, event := range gotEvents {
			if err := c.route(hctx, event); err != nil {
				log.Printf("[ERR] can't handle event %d: %s", event.Id, err.Error())
			}
		}
		return
	}

	for _, event := range gotEvents {
		c.tasks.Add(1)
		go func(event events.Event) {
			defer c.tasks.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[ERR] handler for event %d panicked: %v", event.Id, r)
				}
			}()

			if err := c.route(hctx, event); err != nil {
				log.Printf("[ERR] can't handle event %d: %s", event.Id, err.Error())
			}
		}(event)
	}
}

// route calls the handler registered for the event's type. Events without a
// handler, and unknown events, are skipped.
func (c *Consumer) route(ctx context.Context, event events.Event) error {
	if event.Type == events.Unknown {
		return nil
	}

	h, ok := c.registry.Handler(event.Type)
	if !ok {
		return nil
	}

	return h(ctx, events.Payload{
		ChatId:    event.ChatId,
		MessageId: event.MessageId,
		Text:      event.Text,
		Data:      event.Data,
		Options:   c.options,
	})
}

func (c *Consumer) setState(s State) {
	c.state.Store(int32(s))
}
