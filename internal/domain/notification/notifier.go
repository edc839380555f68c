package notification

import (
	"context"
	"fmt"
	"strings"
)

// Notifier delivers a text message to every configured destination.
// This helps in decoupling the poll loop from the specific bot library.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// DeliveryFailure is a failed attempt for one destination.
type DeliveryFailure struct {
	ChatID int64
	Err    error
}

// NotifyError aggregates the failed destinations of a single Send.
// Destinations that are not listed received the message.
type NotifyError struct {
	Attempted int
	Failures  []DeliveryFailure
}

func (e *NotifyError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("chat %d: %v", f.ChatID, f.Err))
	}
	return fmt.Sprintf("notify failed for %d of %d destinations: %s", len(e.Failures), e.Attempted, strings.Join(parts, "; "))
}

// Unwrap exposes the per-destination errors to errors.Is / errors.As.
func (e *NotifyError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
