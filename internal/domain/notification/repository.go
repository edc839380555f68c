// internal/domain/notification/repository.go
package notification

import "context"

// Journal is an append-only audit log of successful deliveries.
// The poll loop never reads it back; suppression state lives in memory only.
type Journal interface {
	Record(ctx context.Context, d *Delivery) error
	ListRecent(ctx context.Context, limit int) ([]*Delivery, error)
}

// NopJournal discards every delivery. Used when no database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *Delivery) error { return nil }

func (NopJournal) ListRecent(context.Context, int) ([]*Delivery, error) { return nil, nil }
