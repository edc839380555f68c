package app

import (
	"context"
	"errors"
	"testing"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchResponse struct {
	payload string
	err     error
}

type fakeSource struct {
	responses []fetchResponse
	sinces    []homework.Checkpoint
}

func (f *fakeSource) Fetch(_ context.Context, since homework.Checkpoint) (homework.FetchResult, error) {
	f.sinces = append(f.sinces, since)
	r := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	return homework.FetchResult(r.payload), nil
}

type fakeNotifier struct {
	sent []string
	errs []error
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.sent = append(f.sent, text)
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

type fakeJournal struct {
	deliveries []*notification.Delivery
	err        error
}

func (f *fakeJournal) Record(_ context.Context, d *notification.Delivery) error {
	if f.err != nil {
		return f.err
	}
	f.deliveries = append(f.deliveries, d)
	return nil
}

func (f *fakeJournal) ListRecent(context.Context, int) ([]*notification.Delivery, error) {
	return f.deliveries, nil
}

const startCheckpoint homework.Checkpoint = 500

func newTestService(src *fakeSource, n *fakeNotifier, j *fakeJournal) (*PollServiceImpl, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	var journal notification.Journal
	if j != nil {
		journal = j
	}
	return NewPollServiceImpl(src, n, journal, []int64{1, 2}, logrus.NewEntry(logger), startCheckpoint), hook
}

func sendFailure() error {
	return &notification.NotifyError{Attempted: 2, Failures: []notification.DeliveryFailure{{ChatID: 2, Err: errors.New("blocked")}}}
}

const approvedPayload = `{"homeworks": [{"homework_name": "hw1", "status": "approved"}], "current_date": 1000}`

func TestPoll_ApprovedRecordNotifiesOnce(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{payload: approvedPayload}}}
	n := &fakeNotifier{}
	j := &fakeJournal{}
	svc, _ := newTestService(src, n, j)

	out := svc.Poll(context.Background())

	require.NoError(t, out.Err)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "hw1")
	verdict, _ := Verdict(homework.StatusApproved)
	assert.Contains(t, n.sent[0], verdict)
	assert.True(t, out.MessageSent)
	assert.Equal(t, homework.Checkpoint(1000), out.Checkpoint)
	assert.Equal(t, homework.Checkpoint(1000), svc.Checkpoint())
	assert.Equal(t, []homework.Checkpoint{startCheckpoint}, src.sinces)

	require.Len(t, j.deliveries, 1)
	assert.Equal(t, notification.KindStatus, j.deliveries[0].Kind)
	assert.Equal(t, []int64{1, 2}, j.deliveries[0].ChatIDs)
}

func TestPoll_SamePayloadTwiceNotifiesOnce(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{payload: approvedPayload}}}
	n := &fakeNotifier{}
	svc, _ := newTestService(src, n, nil)

	first := svc.Poll(context.Background())
	second := svc.Poll(context.Background())

	assert.True(t, first.MessageSent)
	assert.False(t, second.MessageSent)
	assert.NoError(t, second.Err)
	assert.Equal(t, first.Message, second.Message)
	assert.Len(t, n.sent, 1)
	assert.Equal(t, []homework.Checkpoint{startCheckpoint, 1000}, src.sinces)
}

func TestPoll_EmptyBacklog(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{payload: `{"homeworks": [], "current_date": 2000}`}}}
	n := &fakeNotifier{}
	svc, _ := newTestService(src, n, nil)

	out := svc.Poll(context.Background())

	require.NoError(t, out.Err)
	assert.Equal(t, []string{NoRecentHomeworkMessage}, n.sent)
	assert.Equal(t, homework.Checkpoint(2000), out.Checkpoint)
}

func TestPoll_OnlyMostRecentRecordReported(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{payload: `{"homeworks": [
		{"homework_name": "newest", "status": "rejected"},
		{"homework_name": "older", "status": "approved"}
	], "current_date": 10}`}}}
	n := &fakeNotifier{}
	svc, _ := newTestService(src, n, nil)

	svc.Poll(context.Background())

	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "newest")
	assert.NotContains(t, n.sent[0], "older")
}

func TestPoll_UpstreamStatusErrorReportedOnce(t *testing.T) {
	upstream := &homework.UpstreamStatusError{Endpoint: "https://api", StatusCode: 503}
	src := &fakeSource{responses: []fetchResponse{{err: upstream}}}
	n := &fakeNotifier{}
	svc, hook := newTestService(src, n, nil)

	first := svc.Poll(context.Background())
	second := svc.Poll(context.Background())

	require.Error(t, first.Err)
	assert.True(t, first.ErrorReported)
	assert.False(t, second.ErrorReported)
	assert.Equal(t, first.ErrorText, second.ErrorText)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "503")
	assert.Equal(t, startCheckpoint, svc.Checkpoint())

	var suppressed int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["failure"] == FailureUpstreamStatus {
			suppressed++
		}
	}
	assert.Equal(t, 1, suppressed)
}

func TestPoll_UnknownStatusAdvancesCheckpoint(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{payload: `{"homeworks": [{"homework_name": "hw2", "status": "archived"}], "current_date": 3000}`}}}
	n := &fakeNotifier{}
	svc, _ := newTestService(src, n, nil)

	out := svc.Poll(context.Background())

	var unknown *homework.UnknownStatusError
	require.True(t, errors.As(out.Err, &unknown))
	assert.Equal(t, "archived", unknown.Status)
	assert.Equal(t, homework.Checkpoint(3000), out.Checkpoint)
	require.Len(t, n.sent, 1)
	assert.Equal(t, DescribeFailure(out.Err), n.sent[0])
}

func TestPoll_MalformedPayloadKeepsCheckpoint(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{payload: `{"current_date": 4000}`}}}
	n := &fakeNotifier{}
	svc, _ := newTestService(src, n, nil)

	out := svc.Poll(context.Background())

	merr := requireMalformed(t, out.Err)
	assert.Equal(t, "homeworks", merr.Field)
	assert.Equal(t, startCheckpoint, out.Checkpoint)
	assert.Len(t, n.sent, 1)
}

func TestPoll_StatusSendFailureRetriedNextCycle(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{payload: approvedPayload}}}
	n := &fakeNotifier{errs: []error{sendFailure()}}
	j := &fakeJournal{}
	svc, _ := newTestService(src, n, j)

	first := svc.Poll(context.Background())
	assert.False(t, first.MessageSent)
	assert.Equal(t, FailureNotify, ClassifyFailure(first.Err))
	assert.False(t, first.ErrorReported)
	assert.Len(t, n.sent, 1, "a notifier failure must not be reported through the notifier")
	assert.Empty(t, j.deliveries)
	assert.Equal(t, homework.Checkpoint(1000), first.Checkpoint)

	second := svc.Poll(context.Background())
	assert.True(t, second.MessageSent)
	assert.Len(t, n.sent, 2)
	assert.Equal(t, n.sent[0], n.sent[1])
}

func TestPoll_ErrorReportFailureRetriedNextCycle(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{err: &homework.UpstreamStatusError{Endpoint: "e", StatusCode: 500}}}}
	n := &fakeNotifier{errs: []error{sendFailure()}}
	svc, _ := newTestService(src, n, nil)

	first := svc.Poll(context.Background())
	assert.False(t, first.ErrorReported)
	assert.Len(t, n.sent, 1)

	second := svc.Poll(context.Background())
	assert.True(t, second.ErrorReported)
	assert.Len(t, n.sent, 2)

	third := svc.Poll(context.Background())
	assert.False(t, third.ErrorReported)
	assert.Len(t, n.sent, 2)
}

func TestPoll_StatusAndErrorSuppressedIndependently(t *testing.T) {
	transport := &homework.TransportError{Endpoint: "e", Err: errors.New("connection refused")}
	src := &fakeSource{responses: []fetchResponse{
		{payload: approvedPayload},
		{err: transport},
		{payload: approvedPayload},
		{err: transport},
		{payload: `{"homeworks": [{"homework_name": "hw1", "status": "rejected"}], "current_date": 1100}`},
	}}
	n := &fakeNotifier{}
	svc, _ := newTestService(src, n, nil)

	var sentPerCycle []int
	for i := 0; i < 5; i++ {
		before := len(n.sent)
		svc.Poll(context.Background())
		sentPerCycle = append(sentPerCycle, len(n.sent)-before)
	}

	// status, new error, unchanged status, same error, changed status
	assert.Equal(t, []int{1, 1, 0, 0, 1}, sentPerCycle)
}

func TestPoll_JournalFailureDoesNotFailDelivery(t *testing.T) {
	src := &fakeSource{responses: []fetchResponse{{payload: approvedPayload}}}
	n := &fakeNotifier{}
	j := &fakeJournal{err: errors.New("db down")}
	svc, hook := newTestService(src, n, j)

	out := svc.Poll(context.Background())
	assert.NoError(t, out.Err)
	assert.True(t, out.MessageSent)

	again := svc.Poll(context.Background())
	assert.False(t, again.MessageSent)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Could not record delivery in journal" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestNewPollServiceImpl_DefaultsCheckpointToNow(t *testing.T) {
	before := homework.Now()
	svc := NewPollServiceImpl(&fakeSource{}, &fakeNotifier{}, nil, nil, logrus.NewEntry(logrus.New()), 0)
	assert.GreaterOrEqual(t, svc.Checkpoint(), before)
}
