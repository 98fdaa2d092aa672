package outbox

import (
	"context"
	"log/slog"
	"time"

	"iverr-backend/internal/infra/db"
	"iverr-backend/internal/infra/notifier"
	"iverr-backend/internal/infra/repository"
	"iverr-backend/internal/pkg/config"
	"iverr-backend/internal/pkg/metrics"

	"github.com/google/uuid"
)

type eventStore interface {
	ClaimPending(ctx context.Context, dbtx db.DBTX, limit int32, lease time.Duration) ([]repository.OutboxEvent, error)
	MarkPublished(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	MarkFailed(ctx context.Context, dbtx db.DBTX, id uuid.UUID, cause string, maxAttempts int32) error
}

// Worker drains the outbox table and hands events to the notifier. Delivery is
// fire-and-forget from the booking flow's point of view: a broker outage never
// fails a booking, it only delays its notifications.
type Worker struct {
	db       db.DBTX
	store    eventStore
	notifier notifier.Notifier
	cfg      config.OutboxConfig
}

func NewWorker(database db.DBTX, store eventStore, n notifier.Notifier, cfg config.OutboxConfig) *Worker {
	return &Worker{
		db:       database,
		store:    store,
		notifier: n,
		cfg:      cfg,
	}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.drainOnce(ctx); err != nil {
				slog.Error("outbox drain failed", "error", err.Error())
			}
		}
	}
}

func (w *Worker) drainOnce(ctx context.Context) error {
	events, err := w.store.ClaimPending(ctx, w.db, int32(w.cfg.BatchSize), w.cfg.ClaimLease)
	if err != nil {
		return err
	}

	for _, ev := range events {
		if err := w.notifier.Publish(ctx, ev.ID, ev.Topic, ev.Payload); err != nil {
			metrics.IncOutboxPublishFailed()
			slog.Warn("outbox publish failed",
				"event_id", ev.ID,
				"topic", ev.Topic,
				"attempts", ev.Attempts+1,
				"error", err.Error())
			if err := w.store.MarkFailed(ctx, w.db, ev.ID, err.Error(), int32(w.cfg.MaxAttempts)); err != nil {
				return err
			}
			continue
		}

		metrics.IncOutboxPublished()
		if err := w.store.MarkPublished(ctx, w.db, ev.ID); err != nil {
			return err
		}
	}
	return nil
}
