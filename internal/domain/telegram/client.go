package telegram

import "gopkg.in/telebot.v3"

// Client sends messages through a Telegram bot.
// The notifier depends on this interface rather than on *telebot.Bot so it can be faked in tests.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
