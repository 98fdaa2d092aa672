package bootstrap

import (
	"iverr-backend/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	OutboxModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
