package homework

import "context"

// StatusSource fetches review records created at or after since.
// A zero since means "now".
type StatusSource interface {
	Fetch(ctx context.Context, since Checkpoint) (FetchResult, error)
}
