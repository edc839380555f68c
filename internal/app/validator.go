// internal/app/validator.go
package app

import (
	"bytes"
	"encoding/json"

	"homework_status_bot/internal/domain/homework"
)

const (
	fieldHomeworks    = "homeworks"
	fieldCurrentDate  = "current_date"
	fieldHomeworkName = "homework_name"
	fieldStatus       = "status"
)

// ValidateResponse checks the structure of a fetched payload and decodes it into a Batch.
// Records keep the upstream order; nothing is re-sorted.
func ValidateResponse(payload homework.FetchResult) (homework.Batch, error) {
	raw := bytes.TrimSpace(payload)
	if shape := jsonShape(raw); shape != "object" {
		return homework.Batch{}, homework.WrongShape("", shape)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return homework.Batch{}, homework.WrongShape("", "invalid JSON")
	}

	homeworksRaw, ok := fields[fieldHomeworks]
	if !ok {
		return homework.Batch{}, homework.MissingField(fieldHomeworks)
	}
	currentDateRaw, ok := fields[fieldCurrentDate]
	if !ok {
		return homework.Batch{}, homework.MissingField(fieldCurrentDate)
	}

	if shape := jsonShape(homeworksRaw); shape != "array" {
		return homework.Batch{}, homework.WrongShape(fieldHomeworks, shape)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(homeworksRaw, &items); err != nil {
		return homework.Batch{}, homework.WrongShape(fieldHomeworks, "invalid JSON")
	}

	records := make([]homework.ReviewRecord, 0, len(items))
	for i, item := range items {
		rec, merr := decodeRecord(item)
		if merr != nil {
			merr.Index = i
			return homework.Batch{}, merr
		}
		records = append(records, rec)
	}

	currentDate, merr := decodeCheckpoint(currentDateRaw)
	if merr != nil {
		return homework.Batch{}, merr
	}

	return homework.Batch{Records: records, CurrentDate: currentDate}, nil
}

func decodeRecord(item json.RawMessage) (homework.ReviewRecord, *homework.MalformedResponseError) {
	item = bytes.TrimSpace(item)
	if shape := jsonShape(item); shape != "object" {
		return homework.ReviewRecord{}, homework.WrongShape(fieldHomeworks, shape)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return homework.ReviewRecord{}, homework.WrongShape(fieldHomeworks, "invalid JSON")
	}

	var rec homework.ReviewRecord
	var merr *homework.MalformedResponseError
	if rec.Name, merr = optionalString(fields, fieldHomeworkName); merr != nil {
		return homework.ReviewRecord{}, merr
	}
	if rec.Status, merr = optionalString(fields, fieldStatus); merr != nil {
		return homework.ReviewRecord{}, merr
	}

	// Informational fields; a type mismatch here leaves the zero value.
	var extra struct {
		ID              int64  `json:"id"`
		ReviewerComment string `json:"reviewer_comment"`
		DateUpdated     string `json:"date_updated"`
		LessonName      string `json:"lesson_name"`
	}
	_ = json.Unmarshal(item, &extra)
	rec.ID = extra.ID
	rec.ReviewerComment = extra.ReviewerComment
	rec.DateUpdated = extra.DateUpdated
	rec.LessonName = extra.LessonName

	return rec, nil
}

// optionalString returns nil for an absent or null key.
func optionalString(fields map[string]json.RawMessage, key string) (*string, *homework.MalformedResponseError) {
	raw, ok := fields[key]
	if !ok {
		return nil, nil
	}
	switch shape := jsonShape(bytes.TrimSpace(raw)); shape {
	case "null":
		return nil, nil
	case "string":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, homework.WrongShape(key, "invalid JSON")
		}
		return &s, nil
	default:
		return nil, homework.WrongShape(key, shape)
	}
}

func decodeCheckpoint(raw json.RawMessage) (*homework.Checkpoint, *homework.MalformedResponseError) {
	raw = bytes.TrimSpace(raw)
	switch shape := jsonShape(raw); shape {
	case "null":
		return nil, nil
	case "number":
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, homework.WrongShape(fieldCurrentDate, "non-integer number")
		}
		cp := homework.Checkpoint(v)
		return &cp, nil
	default:
		return nil, homework.WrongShape(fieldCurrentDate, shape)
	}
}

// jsonShape names the JSON kind of raw by its first byte.
func jsonShape(raw []byte) string {
	if len(raw) == 0 {
		return "empty"
	}
	switch c := raw[0]; {
	case c == '{':
		return "object"
	case c == '[':
		return "array"
	case c == '"':
		return "string"
	case c == 't' || c == 'f':
		return "boolean"
	case c == 'n':
		return "null"
	case c == '-' || (c >= '0' && c <= '9'):
		return "number"
	default:
		return "invalid JSON"
	}
}
