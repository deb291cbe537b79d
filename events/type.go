package events

import "context"

type Fetcher interface {
	Fetch(ctx context.Context) ([]Event, error)
}

type Type int

const (
	Unknown Type = iota
	Text
	Callback
)

func (t Type) String() string {
	switch t {
	case Text:
		return "text"
	case Callback:
		return "callback"
	default:
		return "unknown"
	}
}

// Event is one classified update of a fetched batch. Text carries the message
// text for Text events and the text of the message the button belongs to for
// Callback events.
type Event struct {
	Id        int
	Type      Type
	ChatId    int
	MessageId int
	Text      string
	Data      string
}

// Payload is what a Handler receives. Options is the engine's bag, shared by
// every handler invocation.
type Payload struct {
	ChatId    int
	MessageId int
	Text      string
	Data      string
	Options   *Options
}

type Handler func(ctx context.Context, p Payload) error
