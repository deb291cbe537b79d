package telegram

type UpdatesResponse struct {
	Ok          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description,omitempty"`
}

type Update struct {
	Id            int              `json:"update_id"`
	Message       *IncomingMessage `json:"message,omitempty"`
	CallbackQuery *CallbackQuery   `json:"callback_query,omitempty"`
}

type IncomingMessage struct {
	MessageId int    `json:"message_id"`
	Text      string `json:"text"`
	From      *From  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
}

type Chat struct {
	Id int `json:"id"`
}

type From struct {
	Id       int    `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username"`
}

//Inline

type CallbackQuery struct {
	Id      string           `json:"id"`
	From    From             `json:"from"`
	Message *IncomingMessage `json:"message,omitempty"`
	Data    string           `json:"data"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

//Keyboard

type ReplyKeyboardMarkup struct {
	Keyboard       [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard,omitempty"`
}

type KeyboardButton struct {
	Text string `json:"text"`
}

// response is the envelope of every Bot API reply other than getUpdates.
type response struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}
