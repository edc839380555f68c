// internal/infra/database/postgres_delivery_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"homework_status_bot/internal/domain/notification"

	"github.com/lib/pq" // For pq.Array
)

// PostgresDeliveryRepository implements notification.Journal.
type PostgresDeliveryRepository struct {
	db *sql.DB
}

func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{db: db}
}

func (r *PostgresDeliveryRepository) Record(ctx context.Context, d *notification.Delivery) error {
	query := `INSERT INTO deliveries (kind, text, chat_ids, sent_at)
               VALUES ($1, $2, $3, $4)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, d.Kind, d.Text, pq.Array(d.ChatIDs), d.SentAt).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("error recording delivery: %w", err)
	}
	return nil
}

// ListRecent returns up to limit deliveries, newest first.
func (r *PostgresDeliveryRepository) ListRecent(ctx context.Context, limit int) ([]*notification.Delivery, error) {
	if limit <= 0 {
		return []*notification.Delivery{}, nil
	}
	query := `SELECT id, kind, text, chat_ids, sent_at
               FROM deliveries
               ORDER BY sent_at DESC, id DESC
               LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := make([]*notification.Delivery, 0, limit)
	for rows.Next() {
		d := notification.Delivery{}
		var chatIDs pq.Int64Array
		if err := rows.Scan(&d.ID, &d.Kind, &d.Text, &chatIDs, &d.SentAt); err != nil {
			return nil, fmt.Errorf("error scanning delivery row: %w", err)
		}
		d.ChatIDs = []int64(chatIDs)
		deliveries = append(deliveries, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery rows: %w", err)
	}
	return deliveries, nil
}
