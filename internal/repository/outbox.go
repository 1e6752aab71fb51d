package repository

import (
	"context"
	"fmt"

	"github.com/farmart/livestock-api/internal/model"
)

type OutboxRepository interface {
	Insert(ctx context.Context, rec *model.OutboxRecord) error
	FetchPending(ctx context.Context, limit int) ([]model.OutboxRecord, error)
	MarkSent(ctx context.Context, id int64) error
}

type pgOutboxRepo struct{ db DBTX }

func NewOutboxRepository(db DBTX) OutboxRepository {
	return &pgOutboxRepo{db: db}
}

func (r *pgOutboxRepo) Insert(ctx context.Context, rec *model.OutboxRecord) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO outbox (event_id, topic, key, payload) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		rec.EventID, rec.Topic, rec.Key, rec.Payload,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}
	return nil
}

func (r *pgOutboxRepo) FetchPending(ctx context.Context, limit int) ([]model.OutboxRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, topic, key, payload, created_at, sent_at
		 FROM outbox WHERE sent_at IS NULL ORDER BY id LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox: %w", err)
	}
	defer rows.Close()

	var out []model.OutboxRecord
	for rows.Next() {
		var rec model.OutboxRecord
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Topic, &rec.Key, &rec.Payload, &rec.CreatedAt, &rec.SentAt); err != nil {
			return nil, fmt.Errorf("scan outbox: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *pgOutboxRepo) MarkSent(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE outbox SET sent_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark outbox sent: %w", err)
	}
	return nil
}
