// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// NewBot creates a send-only bot. Offline skips the getMe call, so a bad
// token surfaces as a NotifyError on the first send rather than at startup.
func NewBot(token string, timeout time.Duration, logger *logrus.Entry) (*telebot.Bot, error) {
	b, err := telebot.NewBot(telebot.Settings{
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
		OnError: func(err error, c telebot.Context) { // Global error handler
			logger.WithError(err).Error("telebot error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot: %w", err)
	}
	return b, nil
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a plain text message to a chat (user, group or channel).
func (tba *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{DisableWebPagePreview: true}
	}
	_, err := tba.bot.Send(telebot.ChatID(chatID), text, options)
	return err
}
