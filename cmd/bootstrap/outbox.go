package bootstrap

import (
	"context"

	"iverr-backend/internal/infra/notifier"
	"iverr-backend/internal/infra/outbox"
	"iverr-backend/internal/infra/repository"
	"iverr-backend/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var OutboxModule = fx.Module("outbox",
	fx.Provide(
		NewNotifier,
		NewOutboxWorker,
	),
	fx.Invoke(startOutboxWorker),
)

func NewNotifier(lc fx.Lifecycle, cfg config.Config) (notifier.Notifier, error) {
	n, cleanup, err := notifier.NewAMQPNotifier(cfg.AMQP)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return n, nil
}

func NewOutboxWorker(pool *pgxpool.Pool, n notifier.Notifier, cfg config.Config) *outbox.Worker {
	return outbox.NewWorker(pool, repository.NewOutboxRepository(), n, cfg.Outbox)
}

func startOutboxWorker(lc fx.Lifecycle, worker *outbox.Worker) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go worker.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
