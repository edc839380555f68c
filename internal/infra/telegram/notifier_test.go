package telegram

import (
	"context"
	"errors"
	"testing"

	"homework_status_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeClient struct {
	sent    []sentMessage
	failFor map[int64]error
}

func (f *fakeClient) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return f.failFor[chatID]
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestNotifier_SendsToEveryChat(t *testing.T) {
	client := &fakeClient{}
	n := NewNotifier(client, []int64{1, 2, 3}, 0, quietLogger())

	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, []sentMessage{{1, "hello"}, {2, "hello"}, {3, "hello"}}, client.sent)
}

func TestNotifier_FailureDoesNotStopOtherChats(t *testing.T) {
	blocked := errors.New("bot was blocked by the user")
	client := &fakeClient{failFor: map[int64]error{2: blocked}}
	n := NewNotifier(client, []int64{1, 2, 3}, 0, quietLogger())

	err := n.Send(context.Background(), "hello")

	var notifyErr *notification.NotifyError
	require.True(t, errors.As(err, &notifyErr))
	assert.Equal(t, 3, notifyErr.Attempted)
	require.Len(t, notifyErr.Failures, 1)
	assert.Equal(t, int64(2), notifyErr.Failures[0].ChatID)
	assert.ErrorIs(t, err, blocked)
	assert.Len(t, client.sent, 3)
}

func TestNotifier_CancelledContextWhileThrottled(t *testing.T) {
	client := &fakeClient{}
	// One token per hour with a burst of two: the second Send has to wait.
	n := NewNotifier(client, []int64{1, 2}, 1.0/3600, quietLogger())
	require.NoError(t, n.Send(context.Background(), "first"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := n.Send(ctx, "second")

	var notifyErr *notification.NotifyError
	require.True(t, errors.As(err, &notifyErr))
	assert.Len(t, notifyErr.Failures, 2)
	assert.Len(t, client.sent, 2)
}

func TestNotifier_NoDestinations(t *testing.T) {
	n := NewNotifier(&fakeClient{}, nil, 1, quietLogger())
	assert.Error(t, n.Send(context.Background(), "x"))
}
