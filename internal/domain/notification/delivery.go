// internal/domain/notification/delivery.go
package notification

import "time"

// Kind separates status messages from error reports. Suppression is tracked per kind.
type Kind string

const (
	KindStatus Kind = "status"
	KindError  Kind = "error"
)

// Delivery is a notification that every destination accepted.
// Corresponds to the 'deliveries' table.
type Delivery struct {
	ID      int64
	Kind    Kind
	Text    string
	ChatIDs []int64
	SentAt  time.Time
}
