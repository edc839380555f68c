// internal/infra/telegram/notifier.go
package telegram

import (
	"context"
	"fmt"

	"homework_status_bot/internal/domain/notification"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Notifier fans a message out to every configured chat.
// A failure on one chat does not stop delivery to the others.
type Notifier struct {
	client  domainTelegram.Client
	chatIDs []int64
	limiter *rate.Limiter
	logger  *logrus.Entry
}

// NewNotifier throttles sends to ratePerSec with a burst of one message per chat,
// so a single fan-out is not delayed while repeated cycles stay under Telegram limits.
func NewNotifier(client domainTelegram.Client, chatIDs []int64, ratePerSec float64, logger *logrus.Entry) *Notifier {
	burst := len(chatIDs)
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	return &Notifier{
		client:  client,
		chatIDs: chatIDs,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// ChatIDs returns the destinations in send order.
func (n *Notifier) ChatIDs() []int64 {
	return n.chatIDs
}

// Send delivers text to every chat. It returns a *notification.NotifyError
// listing the chats that failed; nil means every chat accepted the message.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if len(n.chatIDs) == 0 {
		return &notification.NotifyError{Failures: []notification.DeliveryFailure{{Err: fmt.Errorf("no destinations configured")}}}
	}

	var failures []notification.DeliveryFailure
	for _, chatID := range n.chatIDs {
		logCtx := n.logger.WithField("chat_id", chatID)
		if err := n.limiter.Wait(ctx); err != nil {
			failures = append(failures, notification.DeliveryFailure{ChatID: chatID, Err: err})
			logCtx.WithError(err).Warn("Send cancelled while throttled")
			continue
		}

		logCtx.Debug("Sending message")
		if err := n.client.SendMessage(chatID, text, nil); err != nil {
			failures = append(failures, notification.DeliveryFailure{ChatID: chatID, Err: err})
			logCtx.WithError(err).Error("Failed to send message")
			continue
		}
		logCtx.Info("Message sent")
	}

	if len(failures) > 0 {
		return &notification.NotifyError{Attempted: len(n.chatIDs), Failures: failures}
	}
	return nil
}
