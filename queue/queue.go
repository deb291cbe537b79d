package queue

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tg_poller/lib/wait"
)

const DefaultInterval = time.Second

type Message struct {
	Id     string
	ChatId int
	Text   string
}

type Sender interface {
	SendMessage(ctx context.Context, chatId int, text string) error
}

// Queue is a FIFO of outbound messages. Push is safe from any goroutine.
// Drain sends entries one at a time with a pause of interval after each send.
type Queue struct {
	mu       sync.Mutex
	items    []Message
	interval time.Duration
	draining atomic.Bool
}

func New(interval time.Duration) *Queue {
	return &Queue{interval: interval}
}

func (q *Queue) Push(chatId int, text string) Message {
	m := Message{
		Id:     uuid.NewString(),
		ChatId: chatId,
		Text:   text,
	}

	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()

	return m
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

func (q *Queue) pop() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Message{}, false
	}

	m := q.items[0]
	q.items[0] = Message{}
	q.items = q.items[1:]

	return m, true
}

// Drain sends queued messages until the queue is empty or ctx is done and
// returns how many sends were attempted. A failed send is logged and the
// message dropped. Only one Drain runs at a time; a call made while another
// is in progress returns 0 immediately.
func (q *Queue) Drain(ctx context.Context, s Sender) int {
	if !q.draining.CompareAndSwap(false, true) {
		return 0
	}
	defer q.draining.Store(false)

	sent := 0
	for ctx.Err() == nil {
		m, ok := q.pop()
		if !ok {
			break
		}

		if err := s.SendMessage(ctx, m.ChatId, m.Text); err != nil {
			log.Printf("[ERR] queue: can't send message %s to chat %d: %s", m.Id, m.ChatId, err.Error())
		}
		sent++

		if !wait.Sleep(ctx, q.interval) {
			break
		}
	}

	return sent
}
