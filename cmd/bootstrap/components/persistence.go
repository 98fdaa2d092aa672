package components

import (
	"iverr-backend/internal/infra/db"
	"iverr-backend/internal/infra/readstore"
	"iverr-backend/internal/infra/uow"
	"iverr-backend/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
			fx.As(new(queries.BookingRangeRepo)),
		),
		// Calendar
		fx.Annotate(
			readstore.NewBlockReadStore,
			fx.As(new(queries.BlockViewRepo)),
		),
		// Car
		fx.Annotate(
			readstore.NewCarReadStore,
			fx.As(new(queries.CarDirectory)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork (repositories are reached through its Tx)
		uow.NewPostgresUoW,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
