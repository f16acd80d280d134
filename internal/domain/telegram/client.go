package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// The digest service depends on this instead of the bot library directly so
// tests can swap in a recorder.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
