package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"tg_poller/lib/e"
)

type Client struct {
	host     string
	basePath string
	timeout  time.Duration
	client   http.Client
}

const (
	getUpdatesMethod    = "getUpdates"
	sendMessageMethod   = "sendMessage"
	deleteMessageMethod = "deleteMessage"

	parseModeMarkdown = "Markdown"

	DefaultTimeout = 5 * time.Second
)

var ErrNotOK = errors.New("telegram response is not ok")

// New returns a client for the bot identified by token. Every request made by
// the client is bounded by timeout; a non-positive timeout means DefaultTimeout.
func New(host string, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		host:     host,
		basePath: newBasePath(token),
		timeout:  timeout,
		client:   http.Client{},
	}
}

func newBasePath(token string) string {
	return "bot" + token
}

// Updates fetches pending updates. A positive offset is sent as the exclusive
// lower bound; zero leaves the remote buffer unconstrained.
func (c *Client) Updates(ctx context.Context, offset int) (updates []Update, err error) {
	defer func() { err = e.WrapIfNil("can't get updates", err) }()

	q := url.Values{}
	if offset > 0 {
		q.Add("offset", strconv.Itoa(offset))
	}

	data, err := c.doRequest(ctx, getUpdatesMethod, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}

	var res UpdatesResponse

	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, notOK(res.Description)
	}

	return res.Result, nil
}

func (c *Client) SendMessage(ctx context.Context, chatId int, text string) error {
	err := c.post(ctx, sendMessageMethod, map[string]any{
		"chat_id":    chatId,
		"text":       text,
		"parse_mode": parseModeMarkdown,
	})
	if err != nil {
		return e.Wrap("can't send message", err)
	}

	return nil
}

func (c *Client) SendInlineButtonMessage(ctx context.Context, chatId int, text string, buttons [][]InlineKeyboardButton) error {
	err := c.post(ctx, sendMessageMethod, map[string]any{
		"chat_id":      chatId,
		"text":         text,
		"parse_mode":   parseModeMarkdown,
		"reply_markup": InlineKeyboardMarkup{InlineKeyboard: buttons},
	})
	if err != nil {
		return e.Wrap("can't send message with inline keyboard", err)
	}

	return nil
}

func (c *Client) SendKeyboardMessage(ctx context.Context, chatId int, text string, keys [][]string) error {
	keyboard := make([][]KeyboardButton, 0, len(keys))
	for _, row := range keys {
		buttons := make([]KeyboardButton, 0, len(row))
		for _, k := range row {
			buttons = append(buttons, KeyboardButton{Text: k})
		}
		keyboard = append(keyboard, buttons)
	}

	err := c.post(ctx, sendMessageMethod, map[string]any{
		"chat_id":      chatId,
		"text":         text,
		"parse_mode":   parseModeMarkdown,
		"reply_markup": ReplyKeyboardMarkup{Keyboard: keyboard, ResizeKeyboard: true},
	})
	if err != nil {
		return e.Wrap("can't send message with keyboard", err)
	}

	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatId int, messageId int) error {
	err := c.post(ctx, deleteMessageMethod, map[string]any{
		"chat_id":    chatId,
		"message_id": messageId,
	})
	if err != nil {
		return e.Wrap("can't delete message", err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return e.Wrap("can't marshal request", err)
	}

	data, err := c.doRequest(ctx, method, http.MethodPost, nil, body)
	if err != nil {
		return err
	}

	var res response
	if err := json.Unmarshal(data, &res); err != nil {
		return e.Wrap("can't decode response", err)
	}

	if !res.Ok {
		return notOK(res.Description)
	}

	return nil
}

func (c *Client) doRequest(ctx context.Context, method string, httpMethod string, q url.Values, body []byte) (data []byte, err error) {
	defer func() { err = e.WrapIfNil("can't do request", err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := url.URL{
		Scheme:   "https",
		Host:     c.host,
		Path:     path.Join(c.basePath, method),
		RawQuery: q.Encode(),
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, u.String(), reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return io.ReadAll(resp.Body)
}

func notOK(description string) error {
	if description == "" {
		return ErrNotOK
	}

	return e.Wrap(description, ErrNotOK)
}
