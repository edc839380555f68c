// internal/app/poll_service.go
package app

import (
	"context"
	"time"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// PollService runs one poll-diff-notify iteration per call.
type PollService interface {
	// Poll fetches the latest review records, notifies about a changed status
	// and reports new failures. It never panics on a non-fatal error; the
	// failure is returned inside the Outcome instead.
	Poll(ctx context.Context) Outcome
}

// Outcome describes what a single Poll did.
type Outcome struct {
	Checkpoint homework.Checkpoint
	// Message is the status text computed this cycle, empty on failure.
	Message     string
	MessageSent bool
	// Err is the failure of this cycle, nil when the cycle succeeded.
	Err           error
	ErrorText     string
	ErrorReported bool
}

// PollServiceImpl implements PollService. It is not safe for concurrent use:
// the checkpoint and the last-notified texts are owned by a single loop.
type PollServiceImpl struct {
	source   homework.StatusSource
	notifier notification.Notifier
	journal  notification.Journal
	chatIDs  []int64
	logger   *logrus.Entry
	now      func() time.Time

	checkpoint      homework.Checkpoint
	previousMessage string
	previousError   string
}

func NewPollServiceImpl(
	source homework.StatusSource,
	notifier notification.Notifier,
	journal notification.Journal,
	chatIDs []int64,
	logger *logrus.Entry,
	start homework.Checkpoint,
) *PollServiceImpl {
	if journal == nil {
		journal = notification.NopJournal{}
	}
	if start == 0 {
		start = homework.Now()
	}
	return &PollServiceImpl{
		source:     source,
		notifier:   notifier,
		journal:    journal,
		chatIDs:    chatIDs,
		logger:     logger,
		now:        time.Now,
		checkpoint: start,
	}
}

// Checkpoint returns the from_date that the next Poll will request.
func (s *PollServiceImpl) Checkpoint() homework.Checkpoint {
	return s.checkpoint
}

func (s *PollServiceImpl) Poll(ctx context.Context) Outcome {
	logCtx := s.logger.WithField("from_date", int64(s.checkpoint))

	message, err := s.collect(ctx, logCtx)
	out := Outcome{Checkpoint: s.checkpoint}
	if err != nil {
		out.Err = err
		s.reportFailure(ctx, logCtx, err, &out)
		return out
	}

	out.Message = message
	logCtx.WithField("checkpoint", int64(s.checkpoint)).Info(message)
	if message == s.previousMessage {
		logCtx.Debug("Status unchanged since last notification, skipping send")
		return out
	}

	if err := s.deliver(ctx, notification.KindStatus, message); err != nil {
		// Reporting a notifier failure through the same notifier would loop.
		out.Err = err
		logCtx.WithError(err).WithField("failure", ClassifyFailure(err)).Error("Status notification was not delivered")
		return out
	}
	s.previousMessage = message
	out.MessageSent = true
	logCtx.Info("Status notification sent")
	return out
}

// collect performs fetch, validate and format. The checkpoint advances as soon
// as the payload validates, so a formatting failure does not re-request the same window.
func (s *PollServiceImpl) collect(ctx context.Context, logCtx *logrus.Entry) (string, error) {
	logCtx.Debug("Requesting homework statuses")
	payload, err := s.source.Fetch(ctx, s.checkpoint)
	if err != nil {
		return "", err
	}

	batch, err := ValidateResponse(payload)
	if err != nil {
		return "", err
	}
	s.checkpoint = batch.NextCheckpoint(s.checkpoint)

	if len(batch.Records) == 0 {
		return NoRecentHomeworkMessage, nil
	}
	if len(batch.Records) > 1 {
		logCtx.WithField("records", len(batch.Records)).Debug("Several records in window, reporting the most recent one")
	}
	latest := batch.Records[0]
	if latest.ReviewerComment != "" {
		logCtx.WithField("homework_id", latest.ID).WithField("reviewer_comment", latest.ReviewerComment).Debug("Reviewer left a comment")
	}
	return FormatStatus(latest)
}

func (s *PollServiceImpl) reportFailure(ctx context.Context, logCtx *logrus.Entry, cause error, out *Outcome) {
	text := DescribeFailure(cause)
	out.ErrorText = text
	logCtx = logCtx.WithError(cause).WithField("failure", ClassifyFailure(cause))

	if text == s.previousError {
		logCtx.Warn("Poll cycle failed again with the same error, notification suppressed")
		return
	}
	logCtx.Error("Poll cycle failed")

	if err := s.deliver(ctx, notification.KindError, text); err != nil {
		logCtx.WithField("notify_error", err.Error()).Error("Failed to report poll failure")
		return
	}
	s.previousError = text
	out.ErrorReported = true
}

// deliver sends text and, once every destination accepted it, appends it to the journal.
// A journal failure never turns a delivered message into a failed one.
func (s *PollServiceImpl) deliver(ctx context.Context, kind notification.Kind, text string) error {
	if err := s.notifier.Send(ctx, text); err != nil {
		return err
	}

	d := &notification.Delivery{
		Kind:    kind,
		Text:    text,
		ChatIDs: s.chatIDs,
		SentAt:  s.now(),
	}
	if err := s.journal.Record(ctx, d); err != nil {
		s.logger.WithError(err).WithField("kind", kind).Warn("Could not record delivery in journal")
	}
	return nil
}
