package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tg_poller/clients/telegram"
	"tg_poller/events"
	"tg_poller/lib/e"
	"tg_poller/queue"
)

const (
	HelpCmd     = "/help"
	StartCmd    = "/start"
	NotifyCmd   = "/notify"
	EchoCmd     = "/echo"
	ButtonsCmd  = "/buttons"
	KeyboardCmd = "/keyboard"
)

const (
	OptionEcho   = "echo"
	notifyPrefix = "notify:"
)

const (
	msgHello     = "Welcome! Send /help to see what I can do."
	msgHelp      = "/notify - toggle periodic notifications\n/echo - toggle echo\n/buttons - inline buttons demo\n/keyboard - keyboard demo"
	msgNotifyOn  = "Notifications enabled."
	msgNotifyOff = "Notifications disabled."
	msgEchoOn    = "Echo enabled."
	msgEchoOff   = "Echo disabled."
	msgButtons   = "Inline buttons"
	msgKeyboard  = "Keyboard"
	msgHeartbeat = "Still polling."
)

type Sender interface {
	SendMessage(ctx context.Context, chatId int, text string) error
	SendInlineButtonMessage(ctx context.Context, chatId int, text string, buttons [][]telegram.InlineKeyboardButton) error
	SendKeyboardMessage(ctx context.Context, chatId int, text string, keys [][]string) error
	DeleteMessage(ctx context.Context, chatId int, messageId int) error
}

type Pusher interface {
	PushMessageQueue(chatId int, text string) queue.Message
}

// Processor is the demo bot: command replies go straight through tg, echoes
// and notifications go through the outbound queue.
type Processor struct {
	tg    Sender
	queue Pusher
}

func NewProcessor(tg Sender, q Pusher) *Processor {
	return &Processor{
		tg:    tg,
		queue: q,
	}
}

// InitOptions seeds the options the handlers read.
func (p *Processor) InitOptions(opts *events.Options) {
	opts.Set(OptionEcho, true)
}

var cmdCaser = cases.Lower(language.Und)

func command(text string) string {
	cmd := cmdCaser.String(strings.TrimSpace(text))
	cmd, _, _ = strings.Cut(cmd, "@")

	return cmd
}

func (p *Processor) HandleText(ctx context.Context, pl events.Payload) (err error) {
	defer func() { err = e.WrapIfNil("can't do command", err) }()

	log.Printf("got new command '%s' from chat %d", pl.Text, pl.ChatId)

	switch command(pl.Text) {
	case StartCmd:
		return p.tg.SendMessage(ctx, pl.ChatId, msgHello)
	case HelpCmd:
		return p.tg.SendMessage(ctx, pl.ChatId, msgHelp)
	case NotifyCmd:
		return p.toggleNotify(ctx, pl)
	case EchoCmd:
		return p.toggleEcho(ctx, pl)
	case ButtonsCmd:
		return p.sendButtons(ctx, pl.ChatId)
	case KeyboardCmd:
		return p.tg.SendKeyboardMessage(ctx, pl.ChatId, msgKeyboard, [][]string{
			{"a", "b", "c"},
			{"d", "e", "f"},
		})
	default:
		if pl.Options.Bool(OptionEcho) {
			p.queue.PushMessageQueue(pl.ChatId, fmt.Sprintf("bot: [%s]", pl.Text))
		}
		return nil
	}
}

func (p *Processor) toggleNotify(ctx context.Context, pl events.Payload) error {
	msg := msgNotifyOff
	if pl.Options.Toggle(notifyKey(pl.ChatId)) {
		msg = msgNotifyOn
	}

	return p.tg.SendMessage(ctx, pl.ChatId, msg)
}

func (p *Processor) toggleEcho(ctx context.Context, pl events.Payload) error {
	msg := msgEchoOff
	if pl.Options.Toggle(OptionEcho) {
		msg = msgEchoOn
	}

	return p.tg.SendMessage(ctx, pl.ChatId, msg)
}

func (p *Processor) sendButtons(ctx context.Context, chatId int) error {
	var buttons [][]telegram.InlineKeyboardButton

	for row := 0; row < 2; row++ {
		var line []telegram.InlineKeyboardButton
		for col := 1; col <= 3; col++ {
			n := strconv.Itoa(row*3 + col)
			line = append(line, telegram.InlineKeyboardButton{
				Text:         "Button " + n,
				CallbackData: n,
			})
		}
		buttons = append(buttons, line)
	}

	return p.tg.SendInlineButtonMessage(ctx, chatId, msgButtons, buttons)
}

// Watch queues a heartbeat for every chat that turned notifications on.
func (p *Processor) Watch(ctx context.Context, opts *events.Options) {
	for key, v := range opts.Snapshot() {
		on, _ := v.(bool)
		if !on || !strings.HasPrefix(key, notifyPrefix) {
			continue
		}

		chatId, err := strconv.Atoi(strings.TrimPrefix(key, notifyPrefix))
		if err != nil {
			continue
		}

		p.queue.PushMessageQueue(chatId, msgHeartbeat)
	}
}

func notifyKey(chatId int) string {
	return notifyPrefix + strconv.Itoa(chatId)
}
