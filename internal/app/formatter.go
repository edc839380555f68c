// internal/app/formatter.go
package app

import (
	"fmt"

	"homework_status_bot/internal/domain/homework"
)

var verdicts = map[homework.Status]string{
	homework.StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	homework.StatusReviewing: "Работа взята на проверку ревьюером.",
	homework.StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable phrase for a known status.
func Verdict(status homework.Status) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// FormatStatus renders the notification text for a single review record.
func FormatStatus(rec homework.ReviewRecord) (string, error) {
	if rec.Name == nil {
		return "", homework.MissingField(fieldHomeworkName)
	}
	if rec.Status == nil {
		return "", homework.MissingField(fieldStatus)
	}

	verdict, ok := Verdict(homework.Status(*rec.Status))
	if !ok {
		return "", &homework.UnknownStatusError{Status: *rec.Status}
	}

	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", *rec.Name, verdict), nil
}
