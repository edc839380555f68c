// internal/domain/homework/record.go
package homework

import (
	"encoding/json"
	"time"
)

// Checkpoint marks the point (unix seconds) up to which review records have been observed.
type Checkpoint int64

// Now returns the current time as a Checkpoint.
func Now() Checkpoint {
	return Checkpoint(time.Now().Unix())
}

// Status is the reviewer-assigned state of a submission as reported by the API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// ReviewRecord is one element of the "homeworks" array.
// Name and Status are pointers so a missing key can be told apart from an empty value.
type ReviewRecord struct {
	ID              int64   `json:"id,omitempty"`
	Name            *string `json:"homework_name"`
	Status          *string `json:"status"`
	ReviewerComment string  `json:"reviewer_comment,omitempty"`
	DateUpdated     string  `json:"date_updated,omitempty"`
	LessonName      string  `json:"lesson_name,omitempty"`
}

// NewReviewRecord builds a record with both required fields set.
func NewReviewRecord(name string, status Status) ReviewRecord {
	s := string(status)
	return ReviewRecord{Name: &name, Status: &s}
}

// FetchResult is the raw response body returned by a StatusSource.
// Its shape is checked by the validator, not by the source.
type FetchResult json.RawMessage

// Batch is a validated FetchResult.
type Batch struct {
	// Records keeps the wire order. Index 0 is taken to be the most recent
	// record, which is how the upstream API orders them.
	Records []ReviewRecord
	// CurrentDate is nil when the payload carried "current_date": null.
	CurrentDate *Checkpoint
}

// NextCheckpoint returns the checkpoint to use for the following poll.
func (b Batch) NextCheckpoint(previous Checkpoint) Checkpoint {
	if b.CurrentDate == nil {
		return previous
	}
	return *b.CurrentDate
}
