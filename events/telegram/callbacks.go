package telegram

import (
	"context"
	"fmt"

	"tg_poller/events"
	"tg_poller/lib/e"
)

// HandleCallback answers a button press on the demo keyboard and removes the
// keyboard message so the button can't be pressed twice.
func (p *Processor) HandleCallback(ctx context.Context, pl events.Payload) (err error) {
	defer func() { err = e.WrapIfNil("can't process callback", err) }()

	if pl.Text != msgButtons {
		return nil
	}

	if err := p.tg.SendMessage(ctx, pl.ChatId, fmt.Sprintf("callback_data: %s", pl.Data)); err != nil {
		return err
	}

	return p.tg.DeleteMessage(ctx, pl.ChatId, pl.MessageId)
}
