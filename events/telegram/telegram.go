package telegram

import (
	"context"
	"errors"
	"log"

	"tg_poller/clients/telegram"
	"tg_poller/events"
	"tg_poller/lib/e"
	"tg_poller/storage"
)

type Updater interface {
	Updates(ctx context.Context, offset int) ([]telegram.Update, error)
}

// Fetcher turns getUpdates batches into classified events and keeps the
// cursor so no update is fetched twice.
type Fetcher struct {
	tg      Updater
	cursor  *Cursor
	storage storage.Storage
}

var _ events.Fetcher = (*Fetcher)(nil)

// NewFetcher returns a fetcher reading through tg. s may be nil, in which case
// the cursor lives only in memory.
func NewFetcher(tg Updater, s storage.Storage) *Fetcher {
	return &Fetcher{
		tg:      tg,
		cursor:  &Cursor{},
		storage: s,
	}
}

func (f *Fetcher) Cursor() *Cursor {
	return f.cursor
}

// Restore seeds the cursor from storage. A missing cursor is not an error.
func (f *Fetcher) Restore(ctx context.Context) (restored bool, err error) {
	if f.storage == nil {
		return false, nil
	}

	id, err := f.storage.Cursor(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoCursor) {
			return false, nil
		}
		return false, e.Wrap("can't restore cursor", err)
	}

	f.cursor.Advance(id)

	return true, nil
}

// SkipBacklog fetches once without dispatching so that updates already
// pending on the remote are not handled.
func (f *Fetcher) SkipBacklog(ctx context.Context) error {
	offset, _ := f.cursor.NextOffset()

	updates, err := f.tg.Updates(ctx, offset)
	if err != nil {
		return e.Wrap("can't skip backlog", err)
	}

	if len(updates) > 0 {
		f.advance(ctx, updates[len(updates)-1].Id)
	}

	return nil
}

func (f *Fetcher) Fetch(ctx context.Context) ([]events.Event, error) {
	offset, _ := f.cursor.NextOffset()

	updates, err := f.tg.Updates(ctx, offset)
	if err != nil {
		return nil, e.Wrap("can't get events", err)
	}

	if len(updates) == 0 {
		return nil, nil
	}

	res := make([]events.Event, 0, len(updates))

	for _, u := range updates {
		res = append(res, event(u))
	}

	f.advance(ctx, updates[len(updates)-1].Id)

	return res, nil
}

func (f *Fetcher) advance(ctx context.Context, id int) {
	if !f.cursor.Advance(id) || f.storage == nil {
		return
	}

	if err := f.storage.SaveCursor(ctx, id); err != nil {
		log.Printf("[ERR] fetcher: %s", err.Error())
	}
}

func event(upd telegram.Update) events.Event {
	res := events.Event{
		Id:   upd.Id,
		Type: fetchType(upd),
	}

	switch res.Type {
	case events.Text:
		res.ChatId = upd.Message.Chat.Id
		res.MessageId = upd.Message.MessageId
		res.Text = upd.Message.Text
	case events.Callback:
		res.Data = upd.CallbackQuery.Data
		if m := upd.CallbackQuery.Message; m != nil {
			res.ChatId = m.Chat.Id
			res.MessageId = m.MessageId
			res.Text = m.Text
		}
	}

	return res
}

func fetchType(upd telegram.Update) events.Type {
	switch {
	case upd.Message != nil:
		if upd.Message.From != nil && upd.Message.From.IsBot {
			return events.Unknown
		}
		return events.Text
	case upd.CallbackQuery != nil:
		return events.Callback
	default:
		return events.Unknown
	}
}
