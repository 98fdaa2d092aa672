package repository

import (
	"context"
	"time"

	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"

	"github.com/google/uuid"
)

// OutboxEvent is a row claimed from the outbox table by the publisher worker.
type OutboxEvent struct {
	ID       uuid.UUID
	Topic    string
	Payload  []byte
	Attempts int32
	RunAt    time.Time
}

type OutboxRepository struct{}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

// Append records an event inside the caller's transaction so the event and
// the state change it describes commit or roll back together.
func (r *OutboxRepository) Append(ctx context.Context, dbtx db.DBTX, topic string, payload []byte, runAt time.Time) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO outbox_events (id, topic, payload, status, run_at)
		VALUES ($1, $2, $3, 'pending', $4)`,
		uuid.New(), topic, payload, runAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}
	return nil
}

// ClaimPending moves due pending events to processing and returns them.
// FOR UPDATE SKIP LOCKED lets concurrent workers drain disjoint batches.
// A processing row whose lease expired counts as due again: a worker that
// died between claiming and acking must not strand its batch.
func (r *OutboxRepository) ClaimPending(ctx context.Context, dbtx db.DBTX, limit int32, lease time.Duration) ([]OutboxEvent, error) {
	rows, err := dbtx.Query(ctx, `
		UPDATE outbox_events SET status = 'processing', updated_at = now()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE (status = 'pending' AND run_at <= now())
			   OR (status = 'processing' AND updated_at < now() - make_interval(secs => $2))
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, topic, payload, attempts, run_at`,
		limit, lease.Seconds(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox events", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.Topic, &ev.Payload, &ev.Attempts, &ev.RunAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read outbox events", err)
	}
	return events, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE outbox_events SET status = 'published', updated_at = now()
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox event published", err)
	}
	return nil
}

// MarkFailed bumps the attempt counter and either reschedules the event or
// parks it as failed once maxAttempts is reached.
func (r *OutboxRepository) MarkFailed(ctx context.Context, dbtx db.DBTX, id uuid.UUID, cause string, maxAttempts int32) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE outbox_events SET
			attempts = attempts + 1,
			last_error = $2,
			status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'pending' END,
			run_at = now() + (interval '1 second' * power(2, attempts)),
			updated_at = now()
		WHERE id = $1`,
		id, cause, maxAttempts,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox event failed", err)
	}
	return nil
}
