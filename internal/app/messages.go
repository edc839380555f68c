// internal/app/messages.go
package app

import (
	"errors"
	"fmt"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"
)

// NoRecentHomeworkMessage is sent when the poll window holds no records.
const NoRecentHomeworkMessage = "За последнее время нет домашних заданий"

// Failure classes used in logs and in error reports.
const (
	FailureTransport      = "transport"
	FailureUpstreamStatus = "upstream_status"
	FailureMalformed      = "malformed_response"
	FailureUnknownStatus  = "unknown_status"
	FailureNotify         = "notify"
	FailureInternal       = "internal"
)

// ClassifyFailure maps an error to one of the Failure* classes.
func ClassifyFailure(err error) string {
	var (
		transportErr *homework.TransportError
		upstreamErr  *homework.UpstreamStatusError
		malformedErr *homework.MalformedResponseError
		unknownErr   *homework.UnknownStatusError
		notifyErr    *notification.NotifyError
	)
	switch {
	case errors.As(err, &transportErr):
		return FailureTransport
	case errors.As(err, &upstreamErr):
		return FailureUpstreamStatus
	case errors.As(err, &malformedErr):
		return FailureMalformed
	case errors.As(err, &unknownErr):
		return FailureUnknownStatus
	case errors.As(err, &notifyErr):
		return FailureNotify
	default:
		return FailureInternal
	}
}

// DescribeFailure renders the chat text for a failed cycle.
// The text is stable for equal errors, which is what error suppression compares.
func DescribeFailure(err error) string {
	return fmt.Sprintf("Сбой в работе программы (%s): %s", ClassifyFailure(err), failureDetail(err))
}

func failureDetail(err error) string {
	var (
		transportErr *homework.TransportError
		upstreamErr  *homework.UpstreamStatusError
		malformedErr *homework.MalformedResponseError
		unknownErr   *homework.UnknownStatusError
	)
	switch {
	case errors.As(err, &transportErr):
		return fmt.Sprintf("ошибка при запросе к %s: %v", transportErr.Endpoint, transportErr.Err)
	case errors.As(err, &upstreamErr):
		return fmt.Sprintf("%s не отвечает. Статус ответа: %d", upstreamErr.Endpoint, upstreamErr.StatusCode)
	case errors.As(err, &malformedErr):
		return describeMalformed(malformedErr)
	case errors.As(err, &unknownErr):
		return fmt.Sprintf("получен неизвестный статус проверки домашней работы %q", unknownErr.Status)
	default:
		return err.Error()
	}
}

func describeMalformed(e *homework.MalformedResponseError) string {
	var text string
	switch {
	case e.Field == "":
		text = fmt.Sprintf("ответ API имеет тип %s, ожидался объект", e.Shape)
	case e.Missing():
		text = fmt.Sprintf("в ответе API отсутствует ключ %s", e.Field)
	default:
		text = fmt.Sprintf("некорректный тип данных в ответе API: %s имеет тип %s", e.Field, e.Shape)
	}
	if e.Index >= 0 {
		text += fmt.Sprintf(" (homeworks[%d])", e.Index)
	}
	return text
}
